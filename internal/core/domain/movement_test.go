package domain_test

import (
	"testing"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func stringPtr(s string) *string {
	return &s
}

func TestMovement_BalanceChanges(t *testing.T) {
	amount := decimal.RequireFromString("50.00")

	tests := []struct {
		name     string
		movement domain.Movement
		want     map[string]string
	}{
		{
			name:     "income credits source",
			movement: domain.Movement{Kind: domain.Income, SourceAccountID: "A", Amount: amount},
			want:     map[string]string{"A": "50"},
		},
		{
			name:     "expense debits source",
			movement: domain.Movement{Kind: domain.Expense, SourceAccountID: "A", Amount: amount},
			want:     map[string]string{"A": "-50"},
		},
		{
			name: "transfer moves between accounts",
			movement: domain.Movement{
				Kind:                 domain.Transfer,
				SourceAccountID:      "A",
				DestinationAccountID: stringPtr("B"),
				Amount:               amount,
			},
			want: map[string]string{"A": "-50", "B": "50"},
		},
		{
			name:     "unknown kind changes nothing",
			movement: domain.Movement{Kind: "REFUND", SourceAccountID: "A", Amount: amount},
			want:     map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.movement.BalanceChanges()
			assert.Len(t, got, len(tt.want))
			sum := decimal.Zero
			for id, delta := range got {
				assert.Equal(t, tt.want[id], delta.String(), "delta for %s", id)
				sum = sum.Add(delta)
			}
			if tt.movement.Kind == domain.Transfer {
				assert.True(t, sum.IsZero(), "transfers must conserve money")
			}
		})
	}
}

func TestMovement_Touches(t *testing.T) {
	m := domain.Movement{SourceAccountID: "A", DestinationAccountID: stringPtr("B")}
	assert.True(t, m.Touches("A"))
	assert.True(t, m.Touches("B"))
	assert.False(t, m.Touches("C"))

	income := domain.Movement{SourceAccountID: "A"}
	assert.False(t, income.Touches("B"))
}

func TestMovementKind_IsValid(t *testing.T) {
	assert.True(t, domain.Income.IsValid())
	assert.True(t, domain.Expense.IsValid())
	assert.True(t, domain.Transfer.IsValid())
	assert.False(t, domain.MovementKind("income").IsValid())
}
