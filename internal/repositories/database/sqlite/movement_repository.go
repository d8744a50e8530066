package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger/internal/models"
	"github.com/SscSPs/personal_ledger/internal/utils/mapping"
	"github.com/shopspring/decimal"
)

type SQLMovementRepository struct {
	db *sql.DB
}

// newSQLMovementRepository creates a new repository for ledger data.
func newSQLMovementRepository(db *sql.DB) portsrepo.MovementRepositoryFacade {
	return &SQLMovementRepository{db: db}
}

var _ portsrepo.MovementRepositoryFacade = (*SQLMovementRepository)(nil)

// InsertMovement appends a movement inside the transaction.
func (s *sqlSession) InsertMovement(ctx context.Context, movement domain.Movement) error {
	m := mapping.ToModelMovement(movement)
	amountCents, err := toCents(m.Amount)
	if err != nil {
		return err
	}
	query := `
		INSERT INTO movements (movement_id, source_account_id, destination_account_id, kind, amount_cents, description, category, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?);
	`
	var destination sql.NullString
	if m.DestinationAccountID != nil {
		destination = sql.NullString{String: *m.DestinationAccountID, Valid: true}
	}
	_, err = s.tx.ExecContext(ctx, query,
		m.MovementID,
		m.SourceAccountID,
		destination,
		string(m.Kind),
		amountCents,
		m.Description,
		m.Category,
		formatTime(m.OccurredAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", m.MovementID, err)
	}
	return nil
}

// ListMovementsByOwner returns movements touching any account of ownerID.
// EXISTS keeps a transfer between two of the owner's accounts to one row.
func (r *SQLMovementRepository) ListMovementsByOwner(ctx context.Context, ownerID string, limit int, after *domain.MovementCursor) ([]domain.Movement, error) {
	args := []any{ownerID}
	cursorClause := ""
	if after != nil {
		cursorClause = `AND (m.occurred_at, m.movement_id) < (?, ?)`
		args = append(args, formatTime(after.Timestamp), after.MovementID)
	}
	args = append(args, limit)

	query := `
		SELECT m.movement_id, m.source_account_id, m.destination_account_id, m.kind, m.amount_cents,
			m.description, m.category, m.occurred_at
		FROM movements m
		WHERE EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.owner_id = ?
				AND (a.account_id = m.source_account_id OR a.account_id = m.destination_account_id)
		)
		` + cursorClause + `
		ORDER BY m.occurred_at DESC, m.movement_id DESC
		LIMIT ?;
	`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying movements for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	movements := []domain.Movement{}
	for rows.Next() {
		var (
			m           models.Movement
			destination sql.NullString
			amountCents int64
			occurredAt  string
		)
		if err := rows.Scan(
			&m.MovementID,
			&m.SourceAccountID,
			&destination,
			&m.Kind,
			&amountCents,
			&m.Description,
			&m.Category,
			&occurredAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning movement row: %w", err)
		}
		if destination.Valid {
			dst := destination.String
			m.DestinationAccountID = &dst
		}
		m.Amount = fromCents(amountCents)
		if m.OccurredAt, err = parseTime(occurredAt); err != nil {
			return nil, err
		}
		movements = append(movements, mapping.ToDomainMovement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}

// SumByCategory totals the owner's movements of one kind per category.
func (r *SQLMovementRepository) SumByCategory(ctx context.Context, ownerID string, kind domain.MovementKind) ([]domain.CategoryTotal, error) {
	query := `
		SELECT COALESCE(NULLIF(m.category, ''), ?) AS label, SUM(m.amount_cents) AS total
		FROM movements m
		JOIN accounts a ON a.account_id = m.source_account_id
		WHERE a.owner_id = ? AND m.kind = ?
		GROUP BY label
		ORDER BY total DESC, label ASC;
	`

	rows, err := r.db.QueryContext(ctx, query, domain.UncategorizedLabel, ownerID, string(kind))
	if err != nil {
		return nil, fmt.Errorf("error querying category totals: %w", err)
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var (
			category string
			cents    int64
		)
		if err := rows.Scan(&category, &cents); err != nil {
			return nil, fmt.Errorf("error scanning category total row: %w", err)
		}
		totals = append(totals, domain.CategoryTotal{Category: category, Total: fromCents(cents)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category total rows: %w", err)
	}
	return totals, nil
}

// NetFlowsByAccount returns the signed sum of movements per account.
func (r *SQLMovementRepository) NetFlowsByAccount(ctx context.Context) (map[string]decimal.Decimal, error) {
	return netFlowsByAccount(ctx, r.db)
}

func netFlowsByAccount(ctx context.Context, q querier) (map[string]decimal.Decimal, error) {
	query := `
		SELECT account_id, COALESCE(SUM(delta), 0)
		FROM (
			SELECT source_account_id AS account_id,
				CASE WHEN kind = 'INCOME' THEN amount_cents ELSE -amount_cents END AS delta
			FROM movements
			UNION ALL
			SELECT destination_account_id, amount_cents
			FROM movements
			WHERE kind = 'TRANSFER'
		)
		GROUP BY account_id;
	`

	rows, err := q.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying account flows: %w", err)
	}
	defer rows.Close()

	flows := make(map[string]decimal.Decimal)
	for rows.Next() {
		var (
			accountID string
			cents     int64
		)
		if err := rows.Scan(&accountID, &cents); err != nil {
			return nil, fmt.Errorf("error scanning account flow row: %w", err)
		}
		flows[accountID] = fromCents(cents)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account flow rows: %w", err)
	}
	return flows, nil
}
