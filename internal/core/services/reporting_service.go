package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

var hundred = decimal.NewFromInt(100)

// reportingService implements the ReportingService interface on top of the
// ledger's category sums.
type reportingService struct {
	BaseService
	ledger portssvc.LedgerReaderSvc
}

// NewReportingService creates a new reporting service
func NewReportingService(ledger portssvc.LedgerReaderSvc) portssvc.ReportingService {
	return &reportingService{ledger: ledger}
}

var _ portssvc.ReportingService = (*reportingService)(nil)

// CategoryBreakdown returns per-category totals and shares for one kind.
func (s *reportingService) CategoryBreakdown(ctx context.Context, userID string, kind domain.MovementKind) (*domain.CategoryBreakdown, error) {
	totals, err := s.ledger.SummarizeByCategory(ctx, userID, kind)
	if err != nil {
		return nil, err
	}
	breakdown := BuildCategoryBreakdown(kind, totals)
	s.LogDebug(ctx, "Category breakdown generated",
		slog.String("user_id", userID),
		slog.String("kind", string(kind)),
		slog.Int("category_count", len(breakdown.Categories)))
	return &breakdown, nil
}

// CategoryReport returns both sides and the net balance. The two sums are
// fetched concurrently.
func (s *reportingService) CategoryReport(ctx context.Context, userID string) (*domain.CategoryReport, error) {
	var expenses, incomes []domain.CategoryTotal

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		expenses, err = s.ledger.SummarizeByCategory(gctx, userID, domain.Expense)
		return err
	})
	g.Go(func() error {
		var err error
		incomes, err = s.ledger.SummarizeByCategory(gctx, userID, domain.Income)
		return err
	})
	if err := g.Wait(); err != nil {
		s.LogError(ctx, err, "Failed to build category report", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to build category report: %w", err)
	}

	report := BuildCategoryReport(expenses, incomes)
	s.LogInfo(ctx, "Category report generated",
		slog.String("user_id", userID),
		slog.String("net", report.Net.StringFixed(2)))
	return &report, nil
}

// BuildCategoryBreakdown computes each category's share of the grand total,
// rounded to one decimal place. A zero grand total yields 0 for every category.
// Input order is kept.
func BuildCategoryBreakdown(kind domain.MovementKind, totals []domain.CategoryTotal) domain.CategoryBreakdown {
	grand := decimal.Zero
	for _, t := range totals {
		grand = grand.Add(t.Total)
	}

	shares := make([]domain.CategoryShare, 0, len(totals))
	for _, t := range totals {
		pct := decimal.Zero
		if !grand.IsZero() {
			pct = t.Total.Div(grand).Mul(hundred).Round(1)
		}
		shares = append(shares, domain.CategoryShare{Category: t.Category, Total: t.Total, Percentage: pct})
	}

	return domain.CategoryBreakdown{Kind: kind, Categories: shares, Total: grand}
}

// BuildCategoryReport combines both sides; Net is income minus expense.
func BuildCategoryReport(expenseTotals, incomeTotals []domain.CategoryTotal) domain.CategoryReport {
	expenses := BuildCategoryBreakdown(domain.Expense, expenseTotals)
	incomes := BuildCategoryBreakdown(domain.Income, incomeTotals)
	return domain.CategoryReport{
		Expenses: expenses,
		Incomes:  incomes,
		Net:      incomes.Total.Sub(expenses.Total),
	}
}
