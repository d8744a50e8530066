package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind is the stored kind of a movement row.
type MovementKind string

// Movement is one row of the movements table.
type Movement struct {
	MovementID           string          `db:"movement_id"`
	SourceAccountID      string          `db:"source_account_id"`
	DestinationAccountID *string         `db:"destination_account_id"` // NULL unless kind is TRANSFER
	Kind                 MovementKind    `db:"kind"`
	Amount               decimal.Decimal `db:"amount"`
	Description          string          `db:"description"`
	Category             string          `db:"category"`
	OccurredAt           time.Time       `db:"occurred_at"`
}
