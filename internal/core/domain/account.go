package domain

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/shopspring/decimal"
)

// AccountType is the discriminator stored alongside every account.
type AccountType string

const (
	AccountTypeWallet AccountType = "WALLET"
	AccountTypeBank   AccountType = "BANK"
)

const (
	cciLength        = 20
	cciPreviewLength = 8
)

// AccountDetails is the type-specific part of an account.
// The only implementations are WalletDetails and BankDetails.
type AccountDetails interface {
	Type() AccountType
	// Summary is the short human readable label used in listings and
	// default transfer descriptions.
	Summary() string
	Validate() error
	sealed()
}

// WalletDetails describes a digital wallet (e.g. a mobile payment app).
type WalletDetails struct {
	Alias    string `json:"alias"`
	Provider string `json:"provider"`
}

func (WalletDetails) Type() AccountType { return AccountTypeWallet }
func (WalletDetails) sealed()           {}

func (w WalletDetails) Summary() string {
	return fmt.Sprintf("%s (%s)", w.Provider, w.Alias)
}

func (w WalletDetails) Validate() error {
	if strings.TrimSpace(w.Alias) == "" {
		return fmt.Errorf("%w: wallet alias is required", apperrors.ErrValidation)
	}
	if strings.TrimSpace(w.Provider) == "" {
		return fmt.Errorf("%w: wallet provider is required", apperrors.ErrValidation)
	}
	return nil
}

// PaymentQR returns the payload encoded in the wallet's payment QR code.
func (w WalletDetails) PaymentQR(accountNumber string) string {
	return fmt.Sprintf("QR:%s:%s:%s", w.Provider, w.Alias, accountNumber)
}

// BankDetails describes a bank account identified by its interbank code (CCI).
type BankDetails struct {
	Bank string `json:"bank"`
	CCI  string `json:"cci"`
}

func (BankDetails) Type() AccountType { return AccountTypeBank }
func (BankDetails) sealed()           {}

func (b BankDetails) Summary() string {
	cci := b.CCI
	if len(cci) > cciPreviewLength {
		cci = cci[:cciPreviewLength] + "..."
	}
	return fmt.Sprintf("%s - CCI: %s", b.Bank, cci)
}

func (b BankDetails) Validate() error {
	if strings.TrimSpace(b.Bank) == "" {
		return fmt.Errorf("%w: bank name is required", apperrors.ErrValidation)
	}
	if len(b.CCI) != cciLength {
		return fmt.Errorf("%w: CCI must have %d digits", apperrors.ErrValidation, cciLength)
	}
	for _, r := range b.CCI {
		if !unicode.IsDigit(r) {
			return fmt.Errorf("%w: CCI must contain only digits", apperrors.ErrValidation)
		}
	}
	return nil
}

// Account is a holder of a monetary balance owned by exactly one user.
type Account struct {
	AccountID      string          `json:"accountID"`      // Primary Key (UUID)
	OwnerID        string          `json:"ownerID"`        // Subject of the owner's token
	AccountNumber  string          `json:"accountNumber"`  // User facing number
	Balance        decimal.Decimal `json:"balance"`        // Mutated only by the ledger engine
	OpeningBalance decimal.Decimal `json:"openingBalance"` // Balance not explained by movements
	Details        AccountDetails  `json:"details"`
	AuditFields
}

// Type returns the account discriminator, or "" when details are missing.
func (a Account) Type() AccountType {
	if a.Details == nil {
		return ""
	}
	return a.Details.Type()
}

// Summary returns the type-specific label for the account.
func (a Account) Summary() string {
	if a.Details == nil {
		return a.AccountNumber
	}
	return a.Details.Summary()
}

// NewAccountDetails builds the variant matching accountType from flattened
// storage columns.
func NewAccountDetails(accountType AccountType, alias, provider, bank, cci string) (AccountDetails, error) {
	switch accountType {
	case AccountTypeWallet:
		return WalletDetails{Alias: alias, Provider: provider}, nil
	case AccountTypeBank:
		return BankDetails{Bank: bank, CCI: cci}, nil
	default:
		return nil, fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, accountType)
	}
}
