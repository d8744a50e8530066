package mapping

import (
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/models"
)

// ToModelMovement converts a domain Movement to a model Movement
func ToModelMovement(d domain.Movement) models.Movement {
	return models.Movement{
		MovementID:           d.MovementID,
		SourceAccountID:      d.SourceAccountID,
		DestinationAccountID: d.DestinationAccountID,
		Kind:                 models.MovementKind(d.Kind),
		Amount:               d.Amount,
		Description:          d.Description,
		Category:             d.Category,
		OccurredAt:           d.Timestamp,
	}
}

// ToDomainMovement converts a model Movement to a domain Movement
func ToDomainMovement(m models.Movement) domain.Movement {
	return domain.Movement{
		MovementID:           m.MovementID,
		SourceAccountID:      m.SourceAccountID,
		DestinationAccountID: m.DestinationAccountID,
		Kind:                 domain.MovementKind(m.Kind),
		Amount:               m.Amount,
		Description:          m.Description,
		Category:             m.Category,
		Timestamp:            m.OccurredAt,
	}
}
