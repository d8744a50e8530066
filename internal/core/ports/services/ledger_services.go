package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRecorderSvc records movements. Each call either applies the movement
// and every balance change it implies, or nothing at all.
type LedgerRecorderSvc interface {
	RecordIncome(ctx context.Context, accountID string, amount decimal.Decimal, description, category string) (*domain.Movement, error)
	RecordExpense(ctx context.Context, accountID string, amount decimal.Decimal, description, category string) (*domain.Movement, error)
	RecordTransfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.Movement, error)
}

// LedgerReaderSvc queries the ledger
type LedgerReaderSvc interface {
	// ListRecentMovements returns up to limit movements touching any account
	// of userID, newest first, without duplicates.
	ListRecentMovements(ctx context.Context, userID string, limit int) ([]domain.Movement, error)

	// ListMovementsPage continues ListRecentMovements from nextToken.
	ListMovementsPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Movement, *string, error)

	// SummarizeByCategory totals the user's movements of kind per category,
	// largest first.
	SummarizeByCategory(ctx context.Context, userID string, kind domain.MovementKind) ([]domain.CategoryTotal, error)

	// SessionHistory returns the movements recorded by this process for userID.
	SessionHistory(ctx context.Context, userID string) ([]domain.Movement, error)
}

// LedgerSvcFacade combines all ledger service interfaces
type LedgerSvcFacade interface {
	LedgerRecorderSvc
	LedgerReaderSvc
}
