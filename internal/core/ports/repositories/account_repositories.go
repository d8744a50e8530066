package repositories

import (
	"context"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AccountReader defines read operations for account data
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// ListAccountsByOwner retrieves the accounts of one user ordered by creation.
	ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error)

	// ListAllAccounts retrieves every account. Used by maintenance jobs.
	ListAllAccounts(ctx context.Context) ([]domain.Account, error)

	// SumBalancesByOwner returns the total balance held by a user.
	SumBalancesByOwner(ctx context.Context, ownerID string) (decimal.Decimal, error)
}

// AccountWriter defines write operations for account data
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// OverwriteBalance sets the stored balance outside of the ledger. The
	// opening balance is shifted by the same delta so the account still
	// reconciles against its movements.
	OverwriteBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error
}

// AccountTransactionSupport defines account operations bound to a Session
type AccountTransactionSupport interface {
	// LockAccounts selects accounts and locks them until the session ends.
	// Missing ids yield an error wrapping apperrors.ErrNotFound.
	LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)

	// GetBalance reads the current balance inside the session.
	GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error)

	// AdjustBalances applies signed deltas to several accounts inside the session.
	AdjustBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error
}

// AccountRepositoryFacade combines all non-session account operations
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
}
