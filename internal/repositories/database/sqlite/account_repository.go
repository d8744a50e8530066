package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger/internal/models"
	"github.com/SscSPs/personal_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

const accountColumns = `account_id, owner_id, account_number, account_type, balance_cents, opening_balance_cents,
	wallet_alias, wallet_provider, bank_name, bank_cci,
	created_at, created_by, last_updated_at, last_updated_by`

type SQLAccountRepository struct {
	db *sql.DB
}

// newSQLAccountRepository creates a new repository for account data.
func newSQLAccountRepository(db *sql.DB) portsrepo.AccountRepositoryFacade {
	return &SQLAccountRepository{db: db}
}

var _ portsrepo.AccountRepositoryFacade = (*SQLAccountRepository)(nil)

type rowScanner interface {
	Scan(dest ...any) error
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func scanAccount(row rowScanner) (domain.Account, error) {
	var (
		m                          models.Account
		balanceCents, openingCents int64
		createdAt, lastUpdatedAt   string
	)
	err := row.Scan(
		&m.AccountID,
		&m.OwnerID,
		&m.AccountNumber,
		&m.AccountType,
		&balanceCents,
		&openingCents,
		&m.WalletAlias,
		&m.WalletProvider,
		&m.BankName,
		&m.BankCCI,
		&createdAt,
		&m.CreatedBy,
		&lastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		return domain.Account{}, err
	}
	m.Balance = fromCents(balanceCents)
	m.OpeningBalance = fromCents(openingCents)
	if m.CreatedAt, err = parseTime(createdAt); err != nil {
		return domain.Account{}, err
	}
	if m.LastUpdatedAt, err = parseTime(lastUpdatedAt); err != nil {
		return domain.Account{}, err
	}
	return mapping.ToDomainAccount(m)
}

func collectAccounts(rows *sql.Rows) ([]domain.Account, error) {
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// SaveAccount inserts a new account.
func (r *SQLAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	m := mapping.ToModelAccount(account)
	balanceCents, err := toCents(m.Balance)
	if err != nil {
		return err
	}
	openingCents, err := toCents(m.OpeningBalance)
	if err != nil {
		return err
	}

	query := `INSERT INTO accounts (` + accountColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?);`
	_, err = r.db.ExecContext(ctx, query,
		m.AccountID,
		m.OwnerID,
		m.AccountNumber,
		string(m.AccountType),
		balanceCents,
		openingCents,
		m.WalletAlias,
		m.WalletProvider,
		m.BankName,
		m.BankCCI,
		formatTime(m.CreatedAt),
		m.CreatedBy,
		formatTime(m.LastUpdatedAt),
		m.LastUpdatedBy,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: account number %s already registered", apperrors.ErrDuplicate, m.AccountNumber)
		}
		return fmt.Errorf("failed to save account %s: %w", m.AccountID, err)
	}
	return nil
}

// FindAccountByID retrieves an account by its ID.
func (r *SQLAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id = ?;`

	acc, err := scanAccount(r.db.QueryRowContext(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %s: %w", accountID, err)
	}
	return &acc, nil
}

func listAccountsByOwner(ctx context.Context, q querier, ownerID string) ([]domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE owner_id = ? ORDER BY created_at, account_id;`

	rows, err := q.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts for owner %s: %w", ownerID, err)
	}
	return collectAccounts(rows)
}

func listAllAccounts(ctx context.Context, q querier) ([]domain.Account, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+accountColumns+` FROM accounts ORDER BY account_id;`)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	return collectAccounts(rows)
}

// ListAccountsByOwner retrieves the accounts of one user.
func (r *SQLAccountRepository) ListAccountsByOwner(ctx context.Context, ownerID string) ([]domain.Account, error) {
	return listAccountsByOwner(ctx, r.db, ownerID)
}

// ListAllAccounts retrieves every account.
func (r *SQLAccountRepository) ListAllAccounts(ctx context.Context) ([]domain.Account, error) {
	return listAllAccounts(ctx, r.db)
}

// SumBalancesByOwner returns the total balance held by a user.
func (r *SQLAccountRepository) SumBalancesByOwner(ctx context.Context, ownerID string) (decimal.Decimal, error) {
	var cents int64
	err := r.db.QueryRowContext(ctx, `SELECT COALESCE(SUM(balance_cents), 0) FROM accounts WHERE owner_id = ?;`, ownerID).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum balances for owner %s: %w", ownerID, err)
	}
	return fromCents(cents), nil
}

// OverwriteBalance sets the balance and shifts the opening balance by the same delta.
func (r *SQLAccountRepository) OverwriteBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string, now time.Time) error {
	query := `
		UPDATE accounts
		SET opening_balance_cents = opening_balance_cents + (? - balance_cents), balance_cents = ?,
			last_updated_at = ?, last_updated_by = ?
		WHERE account_id = ?;
	`
	cents, err := toCents(balance)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, cents, cents, formatTime(now), userID, accountID)
	if err != nil {
		return fmt.Errorf("failed to overwrite balance of account %s: %w", accountID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// LockAccounts retrieves accounts by IDs. The session already holds the
// database write lock, so the rows cannot change until it ends.
func (s *sqlSession) LockAccounts(ctx context.Context, accountIDs []string) (map[string]domain.Account, error) {
	if len(accountIDs) == 0 {
		return map[string]domain.Account{}, nil
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(accountIDs)), ", ")
	args := make([]any, len(accountIDs))
	for i, id := range accountIDs {
		args[i] = id
	}

	query := `SELECT ` + accountColumns + ` FROM accounts WHERE account_id IN (` + placeholders + `) ORDER BY account_id;`
	rows, err := s.tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts by IDs for update: %w", err)
	}
	accounts, err := collectAccounts(rows)
	if err != nil {
		return nil, err
	}

	locked := make(map[string]domain.Account, len(accounts))
	for _, acc := range accounts {
		locked[acc.AccountID] = acc
	}

	missing := []string{}
	for _, id := range accountIDs {
		if _, found := locked[id]; !found {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		slog.WarnContext(ctx, "Some accounts requested for update lock were not found", "missing_accounts", missing)
		return nil, fmt.Errorf("%w: could not find or lock all requested accounts, missing: %v", apperrors.ErrNotFound, missing)
	}
	return locked, nil
}

// GetBalance reads one balance inside the transaction.
func (s *sqlSession) GetBalance(ctx context.Context, accountID string) (decimal.Decimal, error) {
	var cents int64
	err := s.tx.QueryRowContext(ctx, `SELECT balance_cents FROM accounts WHERE account_id = ?;`, accountID).Scan(&cents)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, fmt.Errorf("%w: account %s", apperrors.ErrNotFound, accountID)
		}
		return decimal.Zero, fmt.Errorf("failed to read balance of account %s: %w", accountID, err)
	}
	return fromCents(cents), nil
}

// AdjustBalances applies signed deltas to several accounts within the transaction.
func (s *sqlSession) AdjustBalances(ctx context.Context, balanceChanges map[string]decimal.Decimal, now time.Time) error {
	accountIDs := make([]string, 0, len(balanceChanges))
	for accountID, delta := range balanceChanges {
		if !delta.IsZero() {
			accountIDs = append(accountIDs, accountID)
		}
	}
	sort.Strings(accountIDs)

	stamp := formatTime(now)
	for _, accountID := range accountIDs {
		delta, err := toCents(balanceChanges[accountID])
		if err != nil {
			return err
		}
		res, err := s.tx.ExecContext(ctx,
			`UPDATE accounts SET balance_cents = balance_cents + ?, last_updated_at = ? WHERE account_id = ?;`,
			delta, stamp, accountID)
		if err != nil {
			return fmt.Errorf("failed to update balance for account %s: %w", accountID, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: account %s not found during balance update", apperrors.ErrNotFound, accountID)
		}
	}
	return nil
}
