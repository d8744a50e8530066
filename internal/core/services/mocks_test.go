package services_test

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/events"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

// --- Mock AccountRepository ---
type MockAccountRepository struct {
	mock.Mock
}

var _ portsrepo.AccountRepositoryFacade = (*MockAccountRepository)(nil)

func (m *MockAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockAccountRepository) SumBalancesByOwner(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

func (m *MockAccountRepository) OverwriteBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	args := m.Called(ctx, accountID, balance, userID, now)
	return args.Error(0)
}

// --- Mock MovementRepository ---
type MockMovementRepository struct {
	mock.Mock
}

var _ portsrepo.MovementRepositoryFacade = (*MockMovementRepository)(nil)

func (m *MockMovementRepository) ListMovementsByOwner(ctx context.Context, ownerID string, limit int, after *domain.MovementCursor) ([]domain.Movement, error) {
	args := m.Called(ctx, ownerID, limit, after)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockMovementRepository) SumByCategory(ctx context.Context, ownerID string, kind domain.MovementKind) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, ownerID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockMovementRepository) NetFlowsByAccount(ctx context.Context) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

// --- Mock SnapshotReader ---
type MockSnapshotReader struct {
	mock.Mock
}

var _ portsrepo.SnapshotReader = (*MockSnapshotReader)(nil)

func (m *MockSnapshotReader) ReadLedgerSnapshot(ctx context.Context, ownerID string) (domain.LedgerSnapshot, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(domain.LedgerSnapshot), args.Error(1)
}

// --- Mock TransactionManager and Session ---
type MockTransactionManager struct {
	mock.Mock
}

var _ portsrepo.TransactionManager = (*MockTransactionManager)(nil)

func (m *MockTransactionManager) Begin(ctx context.Context) (portsrepo.Session, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(portsrepo.Session), args.Error(1)
}

func (m *MockTransactionManager) Commit(ctx context.Context, s portsrepo.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockTransactionManager) Rollback(ctx context.Context, s portsrepo.Session) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

type MockSession struct {
	mock.Mock
}

var _ portsrepo.Session = (*MockSession)(nil)

func (m *MockSession) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	args := m.Called(ctx, accountIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Account), args.Error(1)
}

func (m *MockSession) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockSession) AdjustBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	args := m.Called(ctx, balanceChanges, now)
	return args.Error(0)
}

func (m *MockSession) InsertMovement(ctx context.Context, movement domain.Movement) error {
	args := m.Called(ctx, movement)
	return args.Error(0)
}

// --- Mock Publisher ---
type MockPublisher struct {
	mock.Mock
}

var _ events.Publisher = (*MockPublisher)(nil)

func (m *MockPublisher) PublishMovementRecorded(ctx context.Context, event events.MovementRecordedEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() {}

// --- Mock LedgerReader (as used by ReportingService) ---
type MockLedgerReader struct {
	mock.Mock
}

var _ portssvc.LedgerReaderSvc = (*MockLedgerReader)(nil)

func (m *MockLedgerReader) ListRecentMovements(ctx context.Context, userID string, limit int) ([]domain.Movement, error) {
	args := m.Called(ctx, userID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}

func (m *MockLedgerReader) ListMovementsPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Movement, *string, error) {
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

func (m *MockLedgerReader) SummarizeByCategory(ctx context.Context, userID string, kind domain.MovementKind) ([]domain.CategoryTotal, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.CategoryTotal), args.Error(1)
}

func (m *MockLedgerReader) SessionHistory(ctx context.Context, userID string) ([]domain.Movement, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Movement), args.Error(1)
}
