package dto

import (
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RecordMovementRequest is the body of income and expense requests.
type RecordMovementRequest struct {
	AccountID   string          `json:"accountID" binding:"required"`
	Amount      decimal.Decimal `json:"amount" binding:"money_positive"`
	Description string          `json:"description" binding:"max=255"`
	Category    string          `json:"category" binding:"max=64"`
}

// RecordTransferRequest is the body of transfer requests. The category is
// always domain.TransferCategory.
type RecordTransferRequest struct {
	SourceAccountID      string          `json:"sourceAccountID" binding:"required"`
	DestinationAccountID string          `json:"destinationAccountID" binding:"required,nefield=SourceAccountID"`
	Amount               decimal.Decimal `json:"amount" binding:"money_positive"`
	Description          string          `json:"description" binding:"max=255"`
}

// ListMovementsParams defines query parameters for listing movements.
type ListMovementsParams struct {
	Limit     int     `form:"limit" binding:"omitempty,min=1,max=100"`
	NextToken *string `form:"nextToken"`
}

// MovementResponse defines the data returned for a movement.
type MovementResponse struct {
	MovementID           string              `json:"movementID"`
	Kind                 domain.MovementKind `json:"kind"`
	SourceAccountID      string              `json:"sourceAccountID"`
	DestinationAccountID *string             `json:"destinationAccountID,omitempty"`
	Amount               decimal.Decimal     `json:"amount"`
	Description          string              `json:"description"`
	Category             string              `json:"category"`
	Timestamp            time.Time           `json:"timestamp"`
}

// ListMovementsResponse wraps a page of movements.
type ListMovementsResponse struct {
	Movements []MovementResponse `json:"movements"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToMovementResponse converts a domain.Movement to MovementResponse DTO
func ToMovementResponse(m *domain.Movement) MovementResponse {
	return MovementResponse{
		MovementID:           m.MovementID,
		Kind:                 m.Kind,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Amount:               m.Amount,
		Description:          m.Description,
		Category:             m.Category,
		Timestamp:            m.Timestamp,
	}
}

// ToListMovementsResponse converts a page of movements. A nil slice becomes
// an empty JSON array.
func ToListMovementsResponse(movements []domain.Movement, nextToken *string) ListMovementsResponse {
	res := ListMovementsResponse{
		Movements: make([]MovementResponse, len(movements)),
		NextToken: nextToken,
	}
	for i := range movements {
		res.Movements[i] = ToMovementResponse(&movements[i])
	}
	return res
}

// CategoriesResponse lists the suggested categories per kind.
type CategoriesResponse struct {
	Income  []string `json:"income"`
	Expense []string `json:"expense"`
}
