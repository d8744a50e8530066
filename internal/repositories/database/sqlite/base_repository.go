package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// timeLayout is fixed width so that text comparison orders chronologically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

var maxCents = decimal.NewFromInt(math.MaxInt64)

// Amounts are stored as integer cents. Values with sub-cent digits or
// outside the int64 range are rejected instead of rounded or wrapped.
func toCents(d decimal.Decimal) (int64, error) {
	shifted := d.Shift(2)
	if !shifted.IsInteger() {
		return 0, fmt.Errorf("%w: %s has more than two decimal places", apperrors.ErrInvalidAmount, d.String())
	}
	if shifted.Abs().GreaterThan(maxCents) {
		return 0, fmt.Errorf("%w: %s does not fit in the store", apperrors.ErrInvalidAmount, d.String())
	}
	return shifted.IntPart(), nil
}

func fromCents(c int64) decimal.Decimal {
	return decimal.NewFromInt(c).Shift(-2)
}

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	DB *sql.DB
}

// sqlSession binds the session-scoped store operations to one database/sql transaction.
type sqlSession struct {
	tx *sql.Tx
}

var _ portsrepo.TransactionManager = (*BaseRepository)(nil)
var _ portsrepo.SnapshotReader = (*BaseRepository)(nil)
var _ portsrepo.Session = (*sqlSession)(nil)

// Begin starts a new database transaction. The DSN opens write transactions
// with BEGIN IMMEDIATE, so the session holds the write lock from the start.
func (r *BaseRepository) Begin(ctx context.Context) (portsrepo.Session, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return &sqlSession{tx: tx}, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, s portsrepo.Session) error {
	sess, err := asSQLSession(s)
	if err != nil {
		return err
	}
	if err := sess.tx.Commit(); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, s portsrepo.Session) error {
	sess, err := asSQLSession(s)
	if err != nil {
		return err
	}
	if err := sess.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// ReadLedgerSnapshot reads accounts and flows inside one transaction, which
// SQLite serves from a single snapshot of the database.
func (r *BaseRepository) ReadLedgerSnapshot(ctx context.Context, ownerID string) (domain.LedgerSnapshot, error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return domain.LedgerSnapshot{}, apperrors.NewAppError(500, "failed to begin snapshot transaction", err)
	}
	defer func() { _ = tx.Rollback() }()

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

	if err := tx.Commit(); err != nil {
		return domain.LedgerSnapshot{}, apperrors.NewAppError(500, "failed to close snapshot transaction", err)
	}
	return domain.LedgerSnapshot{Accounts: accounts, NetFlows: flows}, nil
}

func asSQLSession(s portsrepo.Session) (*sqlSession, error) {
	sess, ok := s.(*sqlSession)
	if !ok || sess == nil {
		return nil, apperrors.NewAppError(500, "session was not created by the sqlite store", fmt.Errorf("%w: got %T", apperrors.ErrInternal, s))
	}
	return sess, nil
}
