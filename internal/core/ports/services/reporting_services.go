package services

import (
	"context"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
)

// ReportingService defines operations for generating category reports
type ReportingService interface {
	// CategoryBreakdown returns per-category totals and percentages for one kind.
	CategoryBreakdown(ctx context.Context, userID string, kind domain.MovementKind) (*domain.CategoryBreakdown, error)

	// CategoryReport returns both sides plus the net balance.
	CategoryReport(ctx context.Context, userID string) (*domain.CategoryReport, error)
}

// ReconciliationService checks stored balances against the ledger
type ReconciliationService interface {
	// Reconcile checks every account.
	Reconcile(ctx context.Context) ([]domain.AccountDiscrepancy, error)

	// ReconcileOwner checks only the accounts of userID.
	ReconcileOwner(ctx context.Context, userID string) ([]domain.AccountDiscrepancy, error)
}
