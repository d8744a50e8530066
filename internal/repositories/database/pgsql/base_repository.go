package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// pgxSession binds the session-scoped store operations to one pgx transaction.
type pgxSession struct {
	tx pgx.Tx
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)
var _ portsrepo.SnapshotReader = (*BaseRepository)(nil)
var _ portsrepo.Session = (*pgxSession)(nil)

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (portsrepo.Session, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return &pgxSession{tx: tx}, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, s portsrepo.Session) error {
	sess, err := asPgxSession(s)
	if err != nil {
		return err
	}
	if err := sess.tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, s portsrepo.Session) error {
	sess, err := asPgxSession(s)
	if err != nil {
		return err
	}
	if err := sess.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// ReadLedgerSnapshot reads accounts and flows inside one read-only
// REPEATABLE READ transaction, so both queries see the same snapshot.
func (r *BaseRepository) ReadLedgerSnapshot(ctx context.Context, ownerID string) (domain.LedgerSnapshot, error) {
	tx, err := r.Pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly})
	if err != nil {
		return domain.LedgerSnapshot{}, apperrors.NewAppError(500, "failed to begin snapshot transaction", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var accounts []domain.Account
	if ownerID == "" {
		accounts, err = listAllAccounts(ctx, tx)
	} else {
		accounts, err = listAccountsByOwner(ctx, tx, ownerID)
	}
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}

	flows, err := netFlowsByAccount(ctx, tx)
	if err != nil {
		return domain.LedgerSnapshot{}, err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.LedgerSnapshot{}, apperrors.NewAppError(500, "failed to close snapshot transaction", err)
	}
	return domain.LedgerSnapshot{Accounts: accounts, NetFlows: flows}, nil
}

func asPgxSession(s portsrepo.Session) (*pgxSession, error) {
	sess, ok := s.(*pgxSession)
	if !ok || sess == nil {
		return nil, apperrors.NewAppError(500, "session was not created by the postgres store", fmt.Errorf("%w: got %T", apperrors.ErrInternal, s))
	}
	return sess, nil
}
