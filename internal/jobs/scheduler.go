package jobs

import (
	"context"
	"log/slog"

	"github.com/robfig/cron/v3"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron              *cron.Cron
	jobs              *Jobs
	logger            *slog.Logger
	reconcileSchedule string
}

// NewScheduler creates a new scheduler instance. An empty reconcileSchedule
// leaves the reconciliation job unscheduled.
func NewScheduler(jobs *Jobs, logger *slog.Logger, reconcileSchedule string) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))
	c := cron.New(cron.WithChain(cron.Recover(cronLogger)))

	return &Scheduler{
		cron:              c,
		jobs:              jobs,
		logger:            logger,
		reconcileSchedule: reconcileSchedule,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() {
	if s.reconcileSchedule == "" {
		s.logger.Info("reconciliation job disabled")
	} else if _, err := s.cron.AddFunc(s.reconcileSchedule, s.jobs.ReconcileBalances); err != nil {
		s.logger.Error("failed to schedule reconciliation job", "error", err)
	} else {
		s.logger.Info("scheduled reconciliation job", "schedule", s.reconcileSchedule)
	}

	s.cron.Start()
}

// Entries returns the number of registered jobs.
func (s *Scheduler) Entries() int {
	return len(s.cron.Entries())
}

// Stop gracefully stops the cron scheduler. The returned context is done
// once running jobs have finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}
