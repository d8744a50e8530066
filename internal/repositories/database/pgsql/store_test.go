package pgsql

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/personal_ledger/internal/apperrors"
	"github.com/SscSPs/personal_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/personal_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/personal_ledger/pkg/database"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

var baseTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// StoreTestSuite runs against the database named by PGSQL_URL and truncates
// the ledger tables before every test. It is skipped when PGSQL_URL is unset.
type StoreTestSuite struct {
	suite.Suite
	ctx   context.Context
	pool  *pgxpool.Pool
	repos portsrepo.RepositoryProvider
}

func TestStoreTestSuite(t *testing.T) {
	if os.Getenv("PGSQL_URL") == "" {
		t.Skip("PGSQL_URL not set; skipping postgres store tests")
	}
	suite.Run(t, new(StoreTestSuite))
}

func (s *StoreTestSuite) SetupSuite() {
	s.ctx = context.Background()
	url := os.Getenv("PGSQL_URL")

	migrations, err := filepath.Abs(filepath.Join("..", "..", "..", "..", "migrations", "postgres"))
	require.NoError(s.T(), err)
	require.NoError(s.T(), database.RunPostgresMigrations(url, "file://"+filepath.ToSlash(migrations)))

	pool, err := database.NewPgxPool(s.ctx, url)
	require.NoError(s.T(), err)
	s.pool = pool
	s.repos = NewRepositoryProvider(pool)
}

func (s *StoreTestSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
}

func (s *StoreTestSuite) SetupTest() {
	_, err := s.pool.Exec(s.ctx, `TRUNCATE movements, accounts;`)
	s.Require().NoError(err)
}

func (s *StoreTestSuite) saveWallet(id, owner, balance string) {
	b := decimal.RequireFromString(balance)
	err := s.repos.AccountRepo.SaveAccount(s.ctx, domain.Account{
		AccountID:      id,
		OwnerID:        owner,
		AccountNumber:  "N-" + id,
		Balance:        b,
		OpeningBalance: b,
		Details:        domain.WalletDetails{Alias: "alias-" + id, Provider: "Yape"},
		AuditFields: domain.AuditFields{
			CreatedAt: baseTime, CreatedBy: owner, LastUpdatedAt: baseTime, LastUpdatedBy: owner,
		},
	})
	s.Require().NoError(err)
}

func (s *StoreTestSuite) insert(movements ...domain.Movement) {
	sess, err := s.repos.TxManager.Begin(s.ctx)
	s.Require().NoError(err)
	for _, m := range movements {
		s.Require().NoError(sess.InsertMovement(s.ctx, m))
		s.Require().NoError(sess.AdjustBalances(s.ctx, m.BalanceChanges(), m.Timestamp))
	}
	s.Require().NoError(s.repos.TxManager.Commit(s.ctx, sess))
}

func movement(id string, kind domain.MovementKind, src string, dst *string, amount string, category string, offset time.Duration) domain.Movement {
	return domain.Movement{
		MovementID:           id,
		SourceAccountID:      src,
		DestinationAccountID: dst,
		Kind:                 kind,
		Amount:               decimal.RequireFromString(amount),
		Timestamp:            baseTime.Add(offset),
		Category:             category,
	}
}

func strPtr(s string) *string { return &s }

func (s *StoreTestSuite) balance(id string) string {
	acc, err := s.repos.AccountRepo.FindAccountByID(s.ctx, id)
	s.Require().NoError(err)
	return acc.Balance.StringFixed(2)
}

func (s *StoreTestSuite) TestSaveAccount_Duplicate() {
	s.saveWallet("a", "user-1", "0")
	err := s.repos.AccountRepo.SaveAccount(s.ctx, domain.Account{
		AccountID:     "b",
		OwnerID:       "user-1",
		AccountNumber: "N-a",
		Details:       domain.WalletDetails{Alias: "x", Provider: "Plin"},
		AuditFields:   domain.AuditFields{CreatedAt: baseTime, LastUpdatedAt: baseTime},
	})
	s.ErrorIs(err, apperrors.ErrDuplicate)
}

func (s *StoreTestSuite) TestAdjustBalances_BatchAppliesDeltas() {
	s.saveWallet("a", "user-1", "100")
	s.saveWallet("b", "user-1", "20")

	s.insert(movement("m1", domain.Transfer, "a", strPtr("b"), "30.25", domain.TransferCategory, time.Minute))

	s.Equal("69.75", s.balance("a"))
	s.Equal("50.25", s.balance("b"))

	sess, err := s.repos.TxManager.Begin(s.ctx)
	s.Require().NoError(err)
	defer func() { _ = s.repos.TxManager.Rollback(s.ctx, sess) }()
	err = sess.AdjustBalances(s.ctx, map[string]decimal.Decimal{"ghost": decimal.NewFromInt(1)}, baseTime)
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestRollback_DiscardsSessionWrites() {
	s.saveWallet("a", "user-1", "100")

	sess, err := s.repos.TxManager.Begin(s.ctx)
	s.Require().NoError(err)
	s.Require().NoError(sess.InsertMovement(s.ctx, movement("m1", domain.Expense, "a", nil, "30", "Food", 0)))
	s.Require().NoError(sess.AdjustBalances(s.ctx, map[string]decimal.Decimal{"a": decimal.NewFromInt(-30)}, baseTime))
	s.Require().NoError(s.repos.TxManager.Rollback(s.ctx, sess))
	s.NoError(s.repos.TxManager.Rollback(s.ctx, sess))

	s.Equal("100.00", s.balance("a"))
	movements, err := s.repos.MovementRepo.ListMovementsByOwner(s.ctx, "user-1", 10, nil)
	s.Require().NoError(err)
	s.Empty(movements)
}

func (s *StoreTestSuite) TestLockAccounts_BlocksConcurrentSession() {
	s.saveWallet("a", "user-1", "100")

	first, err := s.repos.TxManager.Begin(s.ctx)
	s.Require().NoError(err)
	_, err = first.LockAccounts(s.ctx, []string{"a"})
	s.Require().NoError(err)

	seen := make(chan string, 1)
	go func() {
		second, err := s.repos.TxManager.Begin(s.ctx)
		if err != nil {
			seen <- err.Error()
			return
		}
		defer func() { _ = s.repos.TxManager.Rollback(s.ctx, second) }()
		locked, err := second.LockAccounts(s.ctx, []string{"a"})
		if err != nil {
			seen <- err.Error()
			return
		}
		seen <- locked["a"].Balance.StringFixed(2)
	}()

	select {
	case got := <-seen:
		s.Failf("second session was not blocked", "got %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	s.Require().NoError(first.AdjustBalances(s.ctx, map[string]decimal.Decimal{"a": decimal.NewFromInt(-30)}, baseTime))
	s.Require().NoError(s.repos.TxManager.Commit(s.ctx, first))

	select {
	case got := <-seen:
		s.Equal("70.00", got)
	case <-time.After(5 * time.Second):
		s.Fail("second session never acquired the lock")
	}
}

func (s *StoreTestSuite) TestLockAccounts_MissingID() {
	s.saveWallet("a", "user-1", "10")

	sess, err := s.repos.TxManager.Begin(s.ctx)
	s.Require().NoError(err)
	defer func() { _ = s.repos.TxManager.Rollback(s.ctx, sess) }()

	_, err = sess.LockAccounts(s.ctx, []string{"a", "ghost"})
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *StoreTestSuite) TestListMovementsByOwner_DedupsAndPages() {
	s.saveWallet("a", "user-1", "100")
	s.saveWallet("b", "user-1", "0")
	s.insert(
		movement("m1", domain.Income, "a", nil, "1", "", time.Minute),
		movement("m2", domain.Transfer, "a", strPtr("b"), "1", domain.TransferCategory, 2*time.Minute),
		movement("m3", domain.Income, "a", nil, "1", "", 2*time.Minute),
		movement("m4", domain.Income, "a", nil, "1", "", 3*time.Minute),
	)

	first, err := s.repos.MovementRepo.ListMovementsByOwner(s.ctx, "user-1", 2, nil)
	s.Require().NoError(err)
	s.Require().Len(first, 2)
	s.Equal("m4", first[0].MovementID)
	s.Equal("m3", first[1].MovementID)

	last := first[1]
	rest, err := s.repos.MovementRepo.ListMovementsByOwner(s.ctx, "user-1", 10, &domain.MovementCursor{Timestamp: last.Timestamp, MovementID: last.MovementID})
	s.Require().NoError(err)
	s.Require().Len(rest, 2)
	s.Equal("m2", rest[0].MovementID)
	s.Require().NotNil(rest[0].DestinationAccountID)
	s.Equal("b", *rest[0].DestinationAccountID)
	s.Equal("m1", rest[1].MovementID)
}

func (s *StoreTestSuite) TestSumByCategory() {
	s.saveWallet("a", "user-1", "1000")
	s.insert(
		movement("m1", domain.Expense, "a", nil, "30", "Food", time.Minute),
		movement("m2", domain.Expense, "a", nil, "20", "Food", 2*time.Minute),
		movement("m3", domain.Expense, "a", nil, "10", "", 3*time.Minute),
	)

	totals, err := s.repos.MovementRepo.SumByCategory(s.ctx, "user-1", domain.Expense)
	s.Require().NoError(err)
	s.Require().Len(totals, 2)
	s.Equal("Food", totals[0].Category)
	s.Equal("50.00", totals[0].Total.StringFixed(2))
	s.Equal(domain.UncategorizedLabel, totals[1].Category)
}

func (s *StoreTestSuite) TestReadLedgerSnapshot() {
	s.saveWallet("a", "user-1", "100")
	s.saveWallet("c", "user-2", "3")
	s.insert(movement("m1", domain.Transfer, "a", strPtr("c"), "7", domain.TransferCategory, time.Minute))

	all, err := s.repos.Snapshots.ReadLedgerSnapshot(s.ctx, "")
	s.Require().NoError(err)
	s.Len(all.Accounts, 2)
	s.Equal("-7.00", all.NetFlows["a"].StringFixed(2))

	owned, err := s.repos.Snapshots.ReadLedgerSnapshot(s.ctx, "user-2")
	s.Require().NoError(err)
	s.Require().Len(owned.Accounts, 1)
	s.Equal("10.00", owned.Accounts[0].Balance.StringFixed(2))
	s.Equal("7.00", owned.NetFlows["c"].StringFixed(2))
}

func (s *StoreTestSuite) TestOverwriteBalance_ShiftsOpening() {
	s.saveWallet("a", "user-1", "100")
	s.insert(movement("m1", domain.Expense, "a", nil, "40", "Food", time.Minute))

	s.Require().NoError(s.repos.AccountRepo.OverwriteBalance(s.ctx, "a", decimal.NewFromInt(250), "user-1", baseTime))

	snap, err := s.repos.Snapshots.ReadLedgerSnapshot(s.ctx, "user-1")
	s.Require().NoError(err)
	s.Require().Len(snap.Accounts, 1)
	acc := snap.Accounts[0]
	s.Equal("250.00", acc.Balance.StringFixed(2))
	s.Equal("250.00", acc.OpeningBalance.Add(snap.NetFlows["a"]).StringFixed(2))
}
