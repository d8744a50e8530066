package pgsql

import (
	"context"
	"fmt"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger/internal/models"
	"github.com/SscSPs/personal_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

type PgxMovementRepository struct {
	BaseRepository
}

// newPgxMovementRepository creates a new repository for ledger data.
func newPgxMovementRepository(pool *pgxpool.Pool) portsrepo.MovementRepositoryFacade {
	return &PgxMovementRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.MovementRepositoryFacade = (*PgxMovementRepository)(nil)

// InsertMovement appends a movement inside the transaction.
func (s *pgxSession) InsertMovement(ctx context.Context, movement domain.Movement) error {
	m := mapping.ToModelMovement(movement)
	query := `
		INSERT INTO movements (movement_id, source_account_id, destination_account_id, kind, amount, description, category, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8);
	`
	_, err := s.tx.Exec(ctx, query,
		m.MovementID,
		m.SourceAccountID,
		m.DestinationAccountID,
		m.Kind,
		m.Amount,
		m.Description,
		m.Category,
		m.OccurredAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert movement %s: %w", m.MovementID, err)
	}
	return nil
}

// ListMovementsByOwner returns movements touching any account of ownerID.
// EXISTS keeps a transfer between two of the owner's accounts to one row.
func (r *PgxMovementRepository) ListMovementsByOwner(ctx context.Context, ownerID string, limit int, after *domain.MovementCursor) ([]domain.Movement, error) {
	args := []any{ownerID, limit}
	cursorClause := ""
	if after != nil {
		cursorClause = `AND (m.occurred_at, m.movement_id) < ($3, $4)`
		args = append(args, after.Timestamp, after.MovementID)
	}

	query := `
		SELECT m.movement_id, m.source_account_id, m.destination_account_id, m.kind, m.amount,
			m.description, m.category, m.occurred_at
		FROM movements m
		WHERE EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.owner_id = $1
				AND (a.account_id = m.source_account_id OR a.account_id = m.destination_account_id)
		)
		` + cursorClause + `
		ORDER BY m.occurred_at DESC, m.movement_id DESC
		LIMIT $2;
	`

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying movements for owner %s: %w", ownerID, err)
	}
	defer rows.Close()

	movements := []domain.Movement{}
	for rows.Next() {
		var m models.Movement
		if err := rows.Scan(
			&m.MovementID,
			&m.SourceAccountID,
			&m.DestinationAccountID,
			&m.Kind,
			&m.Amount,
			&m.Description,
			&m.Category,
			&m.OccurredAt,
		); err != nil {
			return nil, fmt.Errorf("error scanning movement row: %w", err)
		}
		movements = append(movements, mapping.ToDomainMovement(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating movement rows: %w", err)
	}
	return movements, nil
}

// SumByCategory totals the owner's movements of one kind per category.
func (r *PgxMovementRepository) SumByCategory(ctx context.Context, ownerID string, kind domain.MovementKind) ([]domain.CategoryTotal, error) {
	query := `
		SELECT COALESCE(NULLIF(m.category, ''), $3) AS category, SUM(m.amount) AS total
		FROM movements m
		JOIN accounts a ON a.account_id = m.source_account_id
		WHERE a.owner_id = $1 AND m.kind = $2
		GROUP BY 1
		ORDER BY total DESC, category ASC;
	`

	rows, err := r.Pool.Query(ctx, query, ownerID, string(kind), domain.UncategorizedLabel)
	if err != nil {
		return nil, fmt.Errorf("error querying category totals: %w", err)
	}
	defer rows.Close()

	totals := []domain.CategoryTotal{}
	for rows.Next() {
		var row domain.CategoryTotal
		if err := rows.Scan(&row.Category, &row.Total); err != nil {
			return nil, fmt.Errorf("error scanning category total row: %w", err)
		}
		totals = append(totals, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating category total rows: %w", err)
	}
	return totals, nil
}

// NetFlowsByAccount returns the signed sum of movements per account.
func (r *PgxMovementRepository) NetFlowsByAccount(ctx context.Context) (map[string]decimal.Decimal, error) {
	return netFlowsByAccount(ctx, r.Pool)
}

func netFlowsByAccount(ctx context.Context, q querier) (map[string]decimal.Decimal, error) {
	query := `
		SELECT account_id, COALESCE(SUM(delta), 0)
		FROM (
			SELECT source_account_id AS account_id,
				CASE WHEN kind = 'INCOME' THEN amount ELSE -amount END AS delta
			FROM movements
			UNION ALL
			SELECT destination_account_id, amount
			FROM movements
			WHERE kind = 'TRANSFER'
		) flows
		GROUP BY account_id;
	`

	rows, err := q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying account flows: %w", err)
	}
	defer rows.Close()

	flows := make(map[string]decimal.Decimal)
	for rows.Next() {
		var accountID string
		var net decimal.Decimal
		if err := rows.Scan(&accountID, &net); err != nil {
			return nil, fmt.Errorf("error scanning account flow row: %w", err)
		}
		flows[accountID] = net
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account flow rows: %w", err)
	}
	return flows, nil
}
