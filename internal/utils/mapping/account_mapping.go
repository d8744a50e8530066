package mapping

import (
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	"github.com/SscSPs/personal_ledger/internal/models"
)

// ToModelAccount flattens a domain Account into its row representation
func ToModelAccount(d domain.Account) models.Account {
	m := models.Account{
		AccountID:      d.AccountID,
		OwnerID:        d.OwnerID,
		AccountNumber:  d.AccountNumber,
		AccountType:    models.AccountType(d.Type()),
		Balance:        d.Balance,
		OpeningBalance: d.OpeningBalance,
		AuditFields:    ToModelAuditFields(d.AuditFields),
	}
	switch det := d.Details.(type) {
	case domain.WalletDetails:
		m.WalletAlias = det.Alias
		m.WalletProvider = det.Provider
	case domain.BankDetails:
		m.BankName = det.Bank
		m.BankCCI = det.CCI
	}
	return m
}

// ToDomainAccount rebuilds the account variant from a row
func ToDomainAccount(m models.Account) (domain.Account, error) {
	details, err := domain.NewAccountDetails(domain.AccountType(m.AccountType), m.WalletAlias, m.WalletProvider, m.BankName, m.BankCCI)
	if err != nil {
		return domain.Account{}, err
	}
	return domain.Account{
		AccountID:      m.AccountID,
		OwnerID:        m.OwnerID,
		AccountNumber:  m.AccountNumber,
		Balance:        m.Balance,
		OpeningBalance: m.OpeningBalance,
		Details:        details,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
	}, nil
}

// ToDomainAccountSlice converts rows, stopping at the first malformed one
func ToDomainAccountSlice(ms []models.Account) ([]domain.Account, error) {
	accounts := make([]domain.Account, 0, len(ms))
	for _, m := range ms {
		acc, err := ToDomainAccount(m)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	return accounts, nil
}
