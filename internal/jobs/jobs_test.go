package jobs

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

type stubReconciliation struct {
	calls  int
	result []domain.AccountDiscrepancy
	err    error
}

func (s *stubReconciliation) Reconcile(ctx context.Context) ([]domain.AccountDiscrepancy, error) {
	s.calls++
	if _, ok := ctx.Deadline(); !ok {
		return nil, errors.New("reconcile called without deadline")
	}
	return s.result, s.err
}

func (s *stubReconciliation) ReconcileOwner(ctx context.Context, userID string) ([]domain.AccountDiscrepancy, error) {
	return nil, errors.New("not used")
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return slog.New(slog.NewTextHandler(buf, nil)), buf
}

func TestReconcileBalances(t *testing.T) {
	tests := []struct {
		name    string
		stub    *stubReconciliation
		wantLog string
	}{
		{name: "clean", stub: &stubReconciliation{}, wantLog: "reconciliation job completed"},
		{
			name: "drift",
			stub: &stubReconciliation{result: []domain.AccountDiscrepancy{{
				AccountID:       "a",
				StoredBalance:   decimal.NewFromInt(2),
				ExpectedBalance: decimal.NewFromInt(1),
			}}},
			wantLog: "reconciliation found drifted balances",
		},
		{name: "failure", stub: &stubReconciliation{err: errors.New("db down")}, wantLog: "reconciliation job failed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, buf := bufferLogger()

			NewJobs(tt.stub, logger).ReconcileBalances()

			assert.Equal(t, 1, tt.stub.calls)
			assert.Contains(t, buf.String(), tt.wantLog)
		})
	}
}

func TestScheduler_RegistersReconcileJob(t *testing.T) {
	logger, _ := bufferLogger()
	s := NewScheduler(NewJobs(&stubReconciliation{}, logger), logger, "@every 1h")

	s.Start()
	defer s.Stop()

	assert.Equal(t, 1, s.Entries())
}

func TestScheduler_EmptyOrInvalidScheduleRegistersNothing(t *testing.T) {
	for _, schedule := range []string{"", "not a schedule"} {
		logger, buf := bufferLogger()
		s := NewScheduler(NewJobs(&stubReconciliation{}, logger), logger, schedule)

		s.Start()
		assert.Equal(t, 0, s.Entries(), schedule)

		select {
		case <-s.Stop().Done():
		case <-time.After(time.Second):
			t.Fatal("scheduler did not stop")
		}
		assert.NotEmpty(t, buf.String())
	}
}
