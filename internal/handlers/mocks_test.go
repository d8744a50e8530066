package handlers_test

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountService ---
type MockAccountService struct {
	mock.Mock
}

var _ portssvc.AccountSvcFacade = (*MockAccountService)(nil)

func (m *MockAccountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountService) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID, balance, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountService) TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// --- Mock LedgerService ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) RecordIncome(ctx context.Context, accountID string, amount decimal.Decimal, description, category string) (*domain.Movement, error) {
	args := m.Called(ctx, accountID, amount, description, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockLedgerService) RecordExpense(ctx context.Context, accountID string, amount decimal.Decimal, description, category string) (*domain.Movement, error) {
	args := m.Called(ctx, accountID, amount, description, category)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockLedgerService) RecordTransfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.Movement, error) {
	args := m.Called(ctx, sourceAccountID, destinationAccountID, amount, description)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Movement), args.Error(1)
}

func (m *MockLedgerService) ListRecentMovements(ctx context.Context, userID string, limit int) ([]domain.Movement, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockLedgerService) ListMovementsPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	args := m.Called(ctx, userID, limit, nextToken)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	var next *string
	if args.Get(1) != nil {
		next = args.Get(1).(*string)
	}
	return args.Get(0).([]domain.Movement), next, args.Error(2)
}

func (m *MockLedgerService) SummarizeByCategory(ctx context.Context, userID string, kind domain.MovementKind) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockLedgerService) SessionHistory(ctx context.Context, userID string) ([]domain.Movement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

// --- Mock ReportingService ---
type MockReportingService struct {
	mock.Mock
}

var _ portssvc.ReportingService = (*MockReportingService)(nil)

func (m *MockReportingService) CategoryBreakdown(ctx context.Context, userID string, kind domain.MovementKind) (*domain.CategoryBreakdown, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryBreakdown), args.Error(1)
}

func (m *MockReportingService) CategoryReport(ctx context.Context, userID string) (*domain.CategoryReport, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.CategoryReport), args.Error(1)
}

// --- Mock ReconciliationService ---
type MockReconciliationService struct {
	mock.Mock
}

var _ portssvc.ReconciliationService = (*MockReconciliationService)(nil)

func (m *MockReconciliationService) Reconcile(ctx context.Context) ([]domain.AccountDiscrepancy, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountDiscrepancy), args.Error(1)
}

func (m *MockReconciliationService) ReconcileOwner(ctx context.Context, userID string) ([]domain.AccountDiscrepancy, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AccountDiscrepancy), args.Error(1)
}
