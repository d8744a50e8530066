package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementKind is the class of a ledger entry.
type MovementKind string

const (
	Income   MovementKind = "INCOME"
	Expense  MovementKind = "EXPENSE"
	Transfer MovementKind = "TRANSFER"
)

// IsValid reports whether k is one of the known kinds.
func (k MovementKind) IsValid() bool {
	switch k {
	case Income, Expense, Transfer:
		return true
	}
	return false
}

// TransferCategory is stored as the category of every transfer.
const TransferCategory = "Transfer"

// UncategorizedLabel groups movements recorded with an empty category.
const UncategorizedLabel = "Uncategorized"

// AmountLimit is the exclusive upper bound for amounts and balances, the
// largest value a NUMERIC(18,2) column holds plus one cent.
var AmountLimit = decimal.New(1, 16)

// Suggested categories offered to clients. The ledger stores any label.
var (
	ExpenseCategories = []string{"Food", "Transport", "Utilities", "Entertainment", "Other"}
	IncomeCategories  = []string{"Salary", "Freelance", "Other"}
)

// Movement is an immutable ledger entry.
type Movement struct {
	MovementID           string          `json:"movementID"`           // Primary Key (UUID)
	SourceAccountID      string          `json:"sourceAccountID"`      // Account credited (income) or debited (expense, transfer)
	DestinationAccountID *string         `json:"destinationAccountID"` // Set only for transfers
	Kind                 MovementKind    `json:"kind"`
	Amount               decimal.Decimal `json:"amount"` // Always positive
	Timestamp            time.Time       `json:"timestamp"`
	Description          string          `json:"description"`
	Category             string          `json:"category"`
}

// Touches reports whether the movement references accountID on either side.
func (m Movement) Touches(accountID string) bool {
	if m.SourceAccountID == accountID {
		return true
	}
	return m.DestinationAccountID != nil && *m.DestinationAccountID == accountID
}

// BalanceChanges returns the signed delta each referenced account receives.
func (m Movement) BalanceChanges() map[string]decimal.Decimal {
	switch m.Kind {
	case Income:
		return map[string]decimal.Decimal{m.SourceAccountID: m.Amount}
	case Expense:
		return map[string]decimal.Decimal{m.SourceAccountID: m.Amount.Neg()}
	case Transfer:
		changes := map[string]decimal.Decimal{m.SourceAccountID: m.Amount.Neg()}
		if m.DestinationAccountID != nil {
			changes[*m.DestinationAccountID] = m.Amount
		}
		return changes
	}
	return map[string]decimal.Decimal{}
}

// MovementCursor positions keyset pagination over movements ordered by
// (Timestamp DESC, MovementID DESC).
type MovementCursor struct {
	Timestamp  time.Time
	MovementID string
}
