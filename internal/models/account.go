package models

import (
	"github.com/shopspring/decimal"
)

// AccountType is the stored discriminator of an account row.
type AccountType string

const (
	Wallet AccountType = "WALLET"
	Bank   AccountType = "BANK"
)

// Account is one row of the accounts table. Variant columns that do not
// apply to the row's type are empty strings.
type Account struct {
	AccountID      string          `db:"account_id"`
	OwnerID        string          `db:"owner_id"`
	AccountNumber  string          `db:"account_number"`
	AccountType    AccountType     `db:"account_type"`
	Balance        decimal.Decimal `db:"balance"`
	OpeningBalance decimal.Decimal `db:"opening_balance"`
	WalletAlias    string          `db:"wallet_alias"`
	WalletProvider string          `db:"wallet_provider"`
	BankName       string          `db:"bank_name"`
	BankCCI        string          `db:"bank_cci"`
	AuditFields
}
