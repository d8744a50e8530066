package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
)

// reconciliationService compares stored balances with opening balance plus
// the net of every movement touching the account.
type reconciliationService struct {
	BaseService
	snapshots portsrepo.SnapshotReader
}

// NewReconciliationService creates a new reconciliation service
func NewReconciliationService(snapshots portsrepo.SnapshotReader) portssvc.ReconciliationService {
	return &reconciliationService{snapshots: snapshots}
}

var _ portssvc.ReconciliationService = (*reconciliationService)(nil)

// Reconcile checks every account.
func (s *reconciliationService) Reconcile(ctx context.Context) ([]domain.AccountDiscrepancy, error) {
	return s.reconcile(ctx, "")
}

// ReconcileOwner checks the accounts of userID only.
func (s *reconciliationService) ReconcileOwner(ctx context.Context, userID string) ([]domain.AccountDiscrepancy, error) {
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", apperrors.ErrValidation)
	}
	return s.reconcile(ctx, userID)
}

func (s *reconciliationService) reconcile(ctx context.Context, ownerID string) ([]domain.AccountDiscrepancy, error) {
	snapshot, err := s.snapshots.ReadLedgerSnapshot(ctx, ownerID)
	if err != nil {
		s.LogError(ctx, err, "Failed to read ledger snapshot", slog.String("user_id", ownerID))
		return nil, fmt.Errorf("failed to read ledger snapshot: %w", err)
	}
	accounts, flows := snapshot.Accounts, snapshot.NetFlows

	discrepancies := []domain.AccountDiscrepancy{}
	for _, acc := range accounts {
		expected := acc.OpeningBalance.Add(flows[acc.AccountID])
		if expected.Equal(acc.Balance) {
			continue
		}
		d := domain.AccountDiscrepancy{
			AccountID:       acc.AccountID,
			OwnerID:         acc.OwnerID,
			StoredBalance:   acc.Balance,
			ExpectedBalance: expected,
		}
		s.LogError(ctx, fmt.Errorf("balance mismatch"), "Account balance does not match its ledger",
			slog.String("account_id", d.AccountID),
			slog.String("stored_balance", d.StoredBalance.StringFixed(2)),
			slog.String("expected_balance", d.ExpectedBalance.StringFixed(2)))
		discrepancies = append(discrepancies, d)
	}

	s.LogInfo(ctx, "Reconciliation finished",
		slog.Int("accounts_checked", len(accounts)),
		slog.Int("discrepancies", len(discrepancies)))
	return discrepancies, nil
}
