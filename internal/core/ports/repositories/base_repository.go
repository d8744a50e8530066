package repositories

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

// Session is an open storage transaction. Every operation performed through
// it becomes visible to other readers only after a successful Commit.
type Session interface {
	AccountTransactionSupport
	MovementTransactionSupport
}

// SnapshotReader reads accounts together with their ledger flows.
type SnapshotReader interface {
	// ReadLedgerSnapshot returns the accounts of ownerID, or every account
	// when ownerID is empty, and the net flow of each account. Both come from
	// one read transaction, so a concurrent movement is either fully counted
	// or not at all.
	ReadLedgerSnapshot(ctx context.Context, ownerID string) (domain.LedgerSnapshot, error)
}

// TransactionManager defines methods for transaction management
type TransactionManager interface {
	// Begin starts a new database transaction
	Begin(ctx context.Context) (Session, error)

	// Commit commits a transaction
	Commit(ctx context.Context, s Session) error

	// Rollback rolls back a transaction. Rolling back a committed or already
	// rolled back session is a no-op.
	Rollback(ctx context.Context, s Session) error
}
