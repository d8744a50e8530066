package domain

import (
	"github.com/shopspring/decimal"
)

// CategoryTotal is the summed amount of one category, as returned by the ledger.
type CategoryTotal struct {
	Category string          `json:"category"`
	Total    decimal.Decimal `json:"total"`
}

// CategoryShare is a CategoryTotal with its share of the side's grand total.
type CategoryShare struct {
	Category   string          `json:"category"`
	Total      decimal.Decimal `json:"total"`
	Percentage decimal.Decimal `json:"percentage"` // 0-100, one decimal place
}

// CategoryBreakdown is one side (income or expense) of a category report.
type CategoryBreakdown struct {
	Kind       MovementKind    `json:"kind"`
	Categories []CategoryShare `json:"categories"`
	Total      decimal.Decimal `json:"total"`
}

// CategoryReport combines both sides with the resulting net balance.
type CategoryReport struct {
	Expenses CategoryBreakdown `json:"expenses"`
	Incomes  CategoryBreakdown `json:"incomes"`
	Net      decimal.Decimal   `json:"net"` // Incomes.Total - Expenses.Total
}

// LedgerSnapshot pairs account rows with the net movement flow of every
// account, both read at the same point in time.
type LedgerSnapshot struct {
	Accounts []Account
	NetFlows map[string]decimal.Decimal
}

// AccountDiscrepancy describes an account whose stored balance does not match
// its opening balance plus the movements that touched it.
type AccountDiscrepancy struct {
	AccountID       string          `json:"accountID"`
	OwnerID         string          `json:"ownerID"`
	StoredBalance   decimal.Decimal `json:"storedBalance"`
	ExpectedBalance decimal.Decimal `json:"expectedBalance"`
}
