package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/dto"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// accountService implements the AccountSvcFacade interface
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
	now         func() time.Time
}

// AccountServiceOption is a functional option for configuring the account service
type AccountServiceOption func(*accountService)

// WithAccountClock overrides the source of audit timestamps.
func WithAccountClock(now func() time.Time) AccountServiceOption {
	return func(s *accountService) {
		s.now = now
	}
}

// NewAccountService creates a new account service with the provided options
func NewAccountService(repo portsrepo.AccountRepositoryFacade, options ...AccountServiceOption) portssvc.AccountSvcFacade {
	svc := &accountService{
		accountRepo: repo,
		now:         time.Now,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// CreateAccount persists a new wallet or bank account owned by userID.
func (s *accountService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest, userID string) (*domain.Account, error) {
	details, err := domain.NewAccountDetails(req.AccountType, req.Alias, req.Provider, req.Bank, req.CCI)
	if err != nil {
		return nil, err
	}
	if err := details.Validate(); err != nil {
		return nil, err
	}
	if err := validateBalance(req.OpeningBalance); err != nil {
		return nil, err
	}

	now := s.now().UTC().Truncate(time.Microsecond)
	account := domain.Account{
		AccountID:      uuid.NewString(),
		OwnerID:        userID,
		AccountNumber:  req.AccountNumber,
		Balance:        req.OpeningBalance,
		OpeningBalance: req.OpeningBalance,
		Details:        details,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		if !errors.Is(err, apperrors.ErrDuplicate) {
			s.LogError(ctx, err, "Failed to save account", slog.String("account_id", account.AccountID))
		}
		return nil, err
	}

	s.LogInfo(ctx, "Account created successfully",
		slog.String("account_id", account.AccountID),
		slog.String("account_type", string(account.Type())))
	return &account, nil
}

// GetAccountByID returns the account when it belongs to userID.
// Accounts of other users are reported as not found.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string, userID string) (*domain.Account, error) {
	account, err := s.accountRepo.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to find account by ID", slog.String("account_id", accountID))
		}
		return nil, err
	}
	if account.OwnerID != userID {
		s.LogDebug(ctx, "Account requested by non-owner",
			slog.String("account_id", accountID),
			slog.String("user_id", userID))
		return nil, apperrors.ErrNotFound
	}
	return account, nil
}

// ListAccounts returns every account of userID.
func (s *accountService) ListAccounts(ctx context.Context, userID string) ([]domain.Account, error) {
	accounts, err := s.accountRepo.ListAccountsByOwner(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list accounts", slog.String("user_id", userID))
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		return []domain.Account{}, nil
	}
	return accounts, nil
}

// SetBalance overwrites the balance of an owned account. This bypasses the
// ledger; the opening balance absorbs the difference.
func (s *accountService) SetBalance(ctx context.Context, accountID string, balance decimal.Decimal, userID string) (*domain.Account, error) {
	if err := validateBalance(balance); err != nil {
		return nil, err
	}
	if _, err := s.GetAccountByID(ctx, accountID, userID); err != nil {
		return nil, err
	}

	if err := s.accountRepo.OverwriteBalance(ctx, accountID, balance, userID, s.now().UTC()); err != nil {
		s.LogError(ctx, err, "Failed to overwrite balance", slog.String("account_id", accountID))
		return nil, err
	}

	s.LogInfo(ctx, "Account balance overwritten",
		slog.String("account_id", accountID),
		slog.String("balance", balance.StringFixed(2)))
	return s.GetAccountByID(ctx, accountID, userID)
}

// TotalBalance sums the balances of every account of userID.
func (s *accountService) TotalBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	total, err := s.accountRepo.SumBalancesByOwner(ctx, userID)
	if err != nil {
		s.LogError(ctx, err, "Failed to sum balances", slog.String("user_id", userID))
		return decimal.Zero, fmt.Errorf("failed to compute total balance: %w", err)
	}
	return total, nil
}
