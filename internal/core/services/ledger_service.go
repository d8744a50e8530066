package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	portssvc "github.com/SscSPs/personal_ledger/internal/core/ports/services"
	"github.com/SscSPs/personal_ledger/internal/events"
	"github.com/SscSPs/personal_ledger/internal/utils/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ledgerService is the transaction engine. Every Record* call runs in a
// single storage session: lock, check, insert, adjust, commit.
type ledgerService struct {
	BaseService
	txManager    portsrepo.TransactionManager
	movementRepo portsrepo.MovementReader
	publisher    events.Publisher
	history      *SessionHistory
	now          func() time.Time
	newID        func() string
}

// LedgerServiceOption is a functional option for configuring the ledger service
type LedgerServiceOption func(*ledgerService)

// WithClock overrides the source of movement timestamps.
func WithClock(now func() time.Time) LedgerServiceOption {
	return func(s *ledgerService) {
		s.now = now
	}
}

// WithIDGenerator overrides how movement IDs are generated.
func WithIDGenerator(newID func() string) LedgerServiceOption {
	return func(s *ledgerService) {
		s.newID = newID
	}
}

// WithEventPublisher sets the publisher notified after each commit.
func WithEventPublisher(p events.Publisher) LedgerServiceOption {
	return func(s *ledgerService) {
		s.publisher = p
	}
}

// WithSessionHistory sets the in-memory history fed by successful records.
func WithSessionHistory(h *SessionHistory) LedgerServiceOption {
	return func(s *ledgerService) {
		s.history = h
	}
}

// NewLedgerService creates a new ledger service with the provided options
func NewLedgerService(txManager portsrepo.TransactionManager, movementRepo portsrepo.MovementReader, options ...LedgerServiceOption) portssvc.LedgerSvcFacade {
	svc := &ledgerService{
		txManager:    txManager,
		movementRepo: movementRepo,
		publisher:    events.NoopPublisher{},
		history:      NewSessionHistory(DefaultSessionHistorySize),
		now:          time.Now,
		newID:        uuid.NewString,
	}

	for _, option := range options {
		option(svc)
	}

	return svc
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// RecordIncome credits accountID with amount.
func (s *ledgerService) RecordIncome(ctx context.Context, accountID string, amount decimal.Decimal, description, category string) (*domain.Movement, error) {
	return s.record(ctx, domain.Movement{
		SourceAccountID: accountID,
		Kind:            domain.Income,
		Amount:          amount,
		Description:     description,
		Category:        category,
	})
}

// RecordExpense debits accountID by amount.
func (s *ledgerService) RecordExpense(ctx context.Context, accountID string, amount decimal.Decimal, description, category string) (*domain.Movement, error) {
	return s.record(ctx, domain.Movement{
		SourceAccountID: accountID,
		Kind:            domain.Expense,
		Amount:          amount,
		Description:     description,
		Category:        category,
	})
}

// RecordTransfer moves amount from sourceAccountID to destinationAccountID.
// An empty description is replaced by one naming both accounts.
func (s *ledgerService) RecordTransfer(ctx context.Context, sourceAccountID, destinationAccountID string, amount decimal.Decimal, description string) (*domain.Movement, error) {
	if sourceAccountID == destinationAccountID {
		return nil, fmt.Errorf("%w: account %s", apperrors.ErrSameAccount, sourceAccountID)
	}
	dst := destinationAccountID
	return s.record(ctx, domain.Movement{
		SourceAccountID:      sourceAccountID,
		DestinationAccountID: &dst,
		Kind:                 domain.Transfer,
		Amount:               amount,
		Description:          description,
		Category:             domain.TransferCategory,
	})
}

func transactionFailed(err error) error {
	return fmt.Errorf("%w: %w", apperrors.ErrTransactionFailed, err)
}

func (s *ledgerService) record(ctx context.Context, m domain.Movement) (*domain.Movement, error) {
	if err := validateAmount(m.Amount); err != nil {
		return nil, err
	}

	m.MovementID = s.newID()
	// Postgres keeps microseconds; truncating keeps the returned value equal to the stored one.
	m.Timestamp = s.now().UTC().Truncate(time.Microsecond)

	logAttrs := []any{
		slog.String("movement_id", m.MovementID),
		slog.String("kind", string(m.Kind)),
		slog.String("source_account_id", m.SourceAccountID),
		slog.String("amount", m.Amount.String()),
	}

	sess, err := s.txManager.Begin(ctx)
	if err != nil {
		s.LogError(ctx, err, "Failed to begin ledger transaction", logAttrs...)
		return nil, transactionFailed(err)
	}
	defer func() {
		if rbErr := s.txManager.Rollback(ctx, sess); rbErr != nil {
			s.LogError(ctx, rbErr, "Failed to roll back ledger transaction", logAttrs...)
		}
	}()

	accountIDs := []string{m.SourceAccountID}
	if m.DestinationAccountID != nil {
		accountIDs = append(accountIDs, *m.DestinationAccountID)
	}

	locked, err := sess.LockAccounts(ctx, accountIDs)
	if err != nil {
		s.LogError(ctx, err, "Failed to lock accounts", logAttrs...)
		return nil, transactionFailed(err)
	}

	if m.Kind != domain.Income {
		balance, err := sess.GetBalance(ctx, m.SourceAccountID)
		if err != nil {
			s.LogError(ctx, err, "Failed to read source balance", logAttrs...)
			return nil, transactionFailed(err)
		}
		if balance.LessThan(m.Amount) {
			err := fmt.Errorf("%w: account %s holds %s, needs %s", apperrors.ErrInsufficientFunds, m.SourceAccountID, balance.StringFixed(2), m.Amount.StringFixed(2))
			s.LogInfo(ctx, "Rejected debit larger than balance", logAttrs...)
			return nil, transactionFailed(err)
		}
	}

	if m.Kind != domain.Expense {
		credited := m.SourceAccountID
		if m.DestinationAccountID != nil {
			credited = *m.DestinationAccountID
		}
		if locked[credited].Balance.Add(m.Amount).GreaterThanOrEqual(domain.AmountLimit) {
			err := fmt.Errorf("%w: balance of account %s would reach %s", apperrors.ErrInvalidAmount, credited, domain.AmountLimit.String())
			s.LogInfo(ctx, "Rejected credit above the balance limit", logAttrs...)
			return nil, transactionFailed(err)
		}
	}

	if m.Kind == domain.Transfer && m.Description == "" {
		m.Description = fmt.Sprintf("Transfer from %s to %s",
			locked[m.SourceAccountID].Summary(), locked[*m.DestinationAccountID].Summary())
	}

	if err := sess.InsertMovement(ctx, m); err != nil {
		s.LogError(ctx, err, "Failed to insert movement", logAttrs...)
		return nil, transactionFailed(err)
	}

	if err := sess.AdjustBalances(ctx, m.BalanceChanges(), m.Timestamp); err != nil {
		s.LogError(ctx, err, "Failed to apply balance changes", logAttrs...)
		return nil, transactionFailed(err)
	}

	if err := s.txManager.Commit(ctx, sess); err != nil {
		s.LogError(ctx, err, "Failed to commit ledger transaction", logAttrs...)
		return nil, transactionFailed(err)
	}

	owners := make([]string, 0, len(locked))
	for _, id := range accountIDs {
		owners = append(owners, locked[id].OwnerID)
	}
	s.history.Add(m, owners...)

	// The movement is committed; a broker failure must not surface as a failed record.
	if err := s.publisher.PublishMovementRecorded(ctx, events.NewMovementRecordedEvent(m)); err != nil {
		s.LogError(ctx, err, "Failed to publish movement event", logAttrs...)
	}

	s.LogInfo(ctx, "Movement recorded", logAttrs...)
	return &m, nil
}

// ListRecentMovements returns up to limit movements touching the user's accounts.
func (s *ledgerService) ListRecentMovements(ctx context.Context, userID string, limit int) ([]domain.Movement, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrValidation)
	}
	movements, err := s.movementRepo.ListMovementsByOwner(ctx, userID, limit, nil)
	if err != nil {
		s.LogError(ctx, err, "Failed to list recent movements", slog.String("user_id", userID), slog.Int("limit", limit))
		return nil, fmt.Errorf("failed to list recent movements: %w", err)
	}
	return movements, nil
}

// ListMovementsPage returns the page after nextToken and the token of the
// following page, nil when there is none.
func (s *ledgerService) ListMovementsPage(ctx context.Context, userID string, limit int, nextToken *string) ([]domain.Movement, *string, error) {
	if limit <= 0 {
		return nil, nil, fmt.Errorf("%w: limit must be positive", apperrors.ErrValidation)
	}

	var cursor *domain.MovementCursor
	if nextToken != nil && *nextToken != "" {
		decoded, err := pagination.DecodeMovementToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		cursor = decoded
	}

	// One extra row tells whether another page exists.
	movements, err := s.movementRepo.ListMovementsByOwner(ctx, userID, limit+1, cursor)
	if err != nil {
		s.LogError(ctx, err, "Failed to list movements page", slog.String("user_id", userID), slog.Int("limit", limit))
		return nil, nil, fmt.Errorf("failed to list movements: %w", err)
	}

	if len(movements) <= limit {
		return movements, nil, nil
	}
	movements = movements[:limit]
	token := pagination.EncodeMovementToken(movements[limit-1])
	return movements, &token, nil
}

// SummarizeByCategory totals the user's movements of kind per category.
func (s *ledgerService) SummarizeByCategory(ctx context.Context, userID string, kind domain.MovementKind) ([]domain.CategoryTotal, error) {
	if !kind.IsValid() {
		return nil, fmt.Errorf("%w: unknown movement kind %q", apperrors.ErrValidation, kind)
	}
	totals, err := s.movementRepo.SumByCategory(ctx, userID, kind)
	if err != nil {
		s.LogError(ctx, err, "Failed to summarize movements by category", slog.String("user_id", userID), slog.String("kind", string(kind)))
		return nil, fmt.Errorf("failed to summarize by category: %w", err)
	}
	return totals, nil
}

// SessionHistory returns the movements this process recorded for userID.
func (s *ledgerService) SessionHistory(ctx context.Context, userID string) ([]domain.Movement, error) {
	return s.history.Recent(userID), nil
}
