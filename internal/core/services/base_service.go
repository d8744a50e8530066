package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/middleware"
	"github.com/shopspring/decimal"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.ErrorContext(ctx, msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).InfoContext(ctx, msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).DebugContext(ctx, msg, keyvals...)
}

// validateAmount enforces 0 < amount < domain.AmountLimit with at most two decimal places.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() || !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: got %s", apperrors.ErrInvalidAmount, amount.String())
	}
	if amount.GreaterThanOrEqual(domain.AmountLimit) {
		return fmt.Errorf("%w: %s must be below %s", apperrors.ErrInvalidAmount, amount.String(), domain.AmountLimit.String())
	}
	return nil
}

// validateBalance enforces 0 <= balance < domain.AmountLimit with at most two decimal places.
func validateBalance(balance decimal.Decimal) error {
	if balance.IsNegative() || !balance.Equal(balance.Round(2)) {
		return fmt.Errorf("%w: balance must be zero or positive with at most two decimal places, got %s", apperrors.ErrValidation, balance.String())
	}
	if balance.GreaterThanOrEqual(domain.AmountLimit) {
		return fmt.Errorf("%w: balance %s must be below %s", apperrors.ErrValidation, balance.String(), domain.AmountLimit.String())
	}
	return nil
}
