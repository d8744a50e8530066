package dto

import (
	"time"

	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to create a new account.
// Wallet accounts need Alias and Provider, bank accounts need Bank and CCI.
type CreateAccountRequest struct {
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=WALLET BANK"`
	AccountNumber  string             `json:"accountNumber" binding:"required,max=34"`
	OpeningBalance decimal.Decimal    `json:"openingBalance" binding:"gte=0"`
	Alias          string             `json:"alias" binding:"required_if=AccountType WALLET,max=64"`
	Provider       string             `json:"provider" binding:"required_if=AccountType WALLET,max=64"`
	Bank           string             `json:"bank" binding:"required_if=AccountType BANK,max=64"`
	CCI            string             `json:"cci" binding:"required_if=AccountType BANK"`
}

// SetBalanceRequest overwrites an account balance (provisioning only).
type SetBalanceRequest struct {
	Balance decimal.Decimal `json:"balance" binding:"gte=0"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     string             `json:"accountID"`
	AccountNumber string             `json:"accountNumber"`
	AccountType   domain.AccountType `json:"accountType"`
	Summary       string             `json:"summary"`
	Balance       decimal.Decimal    `json:"balance"`
	Alias         string             `json:"alias,omitempty"`
	Provider      string             `json:"provider,omitempty"`
	Bank          string             `json:"bank,omitempty"`
	CCI           string             `json:"cci,omitempty"`
	PaymentQR     string             `json:"paymentQR,omitempty"` // Wallets only
	CreatedAt     time.Time          `json:"createdAt"`
	LastUpdatedAt time.Time          `json:"lastUpdatedAt"`
}

// ToAccountResponse converts a domain.Account to AccountResponse DTO
func ToAccountResponse(acc *domain.Account) AccountResponse {
	res := AccountResponse{
		AccountID:     acc.AccountID,
		AccountNumber: acc.AccountNumber,
		AccountType:   acc.Type(),
		Summary:       acc.Summary(),
		Balance:       acc.Balance,
		CreatedAt:     acc.CreatedAt,
		LastUpdatedAt: acc.LastUpdatedAt,
	}
	switch d := acc.Details.(type) {
	case domain.WalletDetails:
		res.Alias = d.Alias
		res.Provider = d.Provider
		res.PaymentQR = d.PaymentQR(acc.AccountNumber)
	case domain.BankDetails:
		res.Bank = d.Bank
		res.CCI = d.CCI
	}
	return res
}

// ToListAccountResponse converts a slice of domain.Account to a slice of AccountResponse DTOs
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// TotalBalanceResponse is the net worth of the caller across all accounts.
type TotalBalanceResponse struct {
	Total decimal.Decimal `json:"total"`
}
