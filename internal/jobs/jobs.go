package jobs

import (
	"context"
	"log/slog"
	"time"

	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
)

const defaultReconcileTimeout = 2 * time.Minute

// Jobs holds the dependencies of the background jobs.
type Jobs struct {
	reconciliation portssvc.ReconciliationService
	logger         *slog.Logger
	timeout        time.Duration
}

// NewJobs creates the job set.
func NewJobs(reconciliation portssvc.ReconciliationService, logger *slog.Logger) *Jobs {
	return &Jobs{
		reconciliation: reconciliation,
		logger:         logger,
		timeout:        defaultReconcileTimeout,
	}
}

// ReconcileBalances compares every stored balance with the ledger and logs
// the accounts that drifted. It never modifies balances.
func (j *Jobs) ReconcileBalances() {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	start := time.Now()
	discrepancies, err := j.reconciliation.Reconcile(ctx)
	if err != nil {
		j.logger.Error("reconciliation job failed", "error", err)
		return
	}
	if len(discrepancies) > 0 {
		j.logger.Warn("reconciliation found drifted balances",
			"discrepancies", len(discrepancies),
			"duration", time.Since(start))
		return
	}
	j.logger.Info("reconciliation job completed", "duration", time.Since(start))
}
