package dto

import (
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CategoryShareResponse represents one category row of a report
type CategoryShareResponse struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"`
}

// CategoryBreakdownResponse represents one side of the category report
type CategoryBreakdownResponse struct {
	Kind       domain.MovementKind     `json:"kind"`
	Categories []CategoryShareResponse `json:"categories"`
	Total      decimal.Decimal         `json:"total"`
}

// CategoryReportResponse represents the full income/expense report
type CategoryReportResponse struct {
	Expenses CategoryBreakdownResponse `json:"expenses"`
	Incomes  CategoryBreakdownResponse `json:"incomes"`
	Net      decimal.Decimal           `json:"net"`
}

// DiscrepancyResponse is one account that failed reconciliation
type DiscrepancyResponse struct {
	AccountID       string          `json:"accountID"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
}

// ReconciliationResponse lists every account that failed reconciliation
type ReconciliationResponse struct {
	Consistent    bool                  `json:"consistent"`
	Discrepancies []DiscrepancyResponse `json:"discrepancies"`
}

// ToCategoryBreakdownResponse converts a domain.CategoryBreakdown
func ToCategoryBreakdownResponse(b *domain.CategoryBreakdown) CategoryBreakdownResponse {
	res := CategoryBreakdownResponse{
		Kind:       b.Kind,
		Categories: make([]CategoryShareResponse, len(b.Categories)),
		Total:      b.Total,
	}
	for i, c := range b.Categories {
		res.Categories[i] = CategoryShareResponse{
			Category:   c.Category,
			Total:      c.Total,
			Percentage: c.Percentage,
		}
	}
	return res
}

// ToCategoryReportResponse converts a domain.CategoryReport
func ToCategoryReportResponse(r *domain.CategoryReport) CategoryReportResponse {
	return CategoryReportResponse{
		Expenses: ToCategoryBreakdownResponse(&r.Expenses),
		Incomes:  ToCategoryBreakdownResponse(&r.Incomes),
		Net:      r.Net,
	}
}

// ToReconciliationResponse converts discrepancies into a response
func ToReconciliationResponse(ds []domain.AccountDiscrepancy) ReconciliationResponse {
	res := ReconciliationResponse{
		Consistent:    len(ds) == 0,
		Discrepancies: make([]DiscrepancyResponse, len(ds)),
	}
	for i, d := range ds {
		res.Discrepancies[i] = DiscrepancyResponse{
			AccountID:       d.AccountID,
			StoredBalance:   d.StoredBalance,
			ExpectedBalance: d.ExpectedBalance,
		}
	}
	return res
}
