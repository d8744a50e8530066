package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// MovementReader defines read operations over the ledger
type MovementReader interface {
	// ListMovementsByOwner returns movements touching any account of ownerID,
	// newest first, each movement at most once. A nil cursor starts at the
	// most recent movement.
	ListMovementsByOwner(ctx context.Context, ownerID string, limit int, after *domain.MovementCursor) ([]domain.Movement, error)

	// SumByCategory totals movements of kind whose source account belongs to
	// ownerID, grouped by category and ordered by total descending.
	SumByCategory(ctx context.Context, ownerID string, kind domain.MovementKind) ([]domain.CategoryTotal, error)

	// NetFlowsByAccount returns, per account, the signed sum of every
	// movement that touched it.
	NetFlowsByAccount(ctx context.Context) (map[string]decimal.Decimal, error)
}

// MovementTransactionSupport defines ledger operations bound to a Session
type MovementTransactionSupport interface {
	// InsertMovement appends a movement to the ledger.
	InsertMovement(ctx context.Context, movement domain.Movement) error
}

// MovementRepositoryFacade combines the non-session ledger operations
type MovementRepositoryFacade interface {
	MovementReader
}
