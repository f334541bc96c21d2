package pgsql

import (
	"context"
	"database/sql"
	"os"
	"testing"
	"time"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/suite"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
)

// LedgerRepositorySuite exercises the transfer engine's atomic unit against a
// real PostgreSQL instance: row locking, the funds re-check under the lock,
// idempotency key collisions and issuance. Set PGSQL_TEST_URL to a disposable
// database to run it; the suite truncates tables between tests.
type LedgerRepositorySuite struct {
	suite.Suite
	pool        *pgxpool.Pool
	migrator    *migrate.Migrate
	accountRepo portsrepo.AccountRepositoryFacade
	ledgerRepo  portsrepo.LedgerRepositoryFacade

	adminID     string
	resellerAcc domain.Account
	ownerAcc    domain.Account
}

func TestLedgerRepositorySuite(t *testing.T) {
	if os.Getenv("PGSQL_TEST_URL") == "" {
		t.Skip("PGSQL_TEST_URL not set; skipping database integration tests")
	}
	suite.Run(t, new(LedgerRepositorySuite))
}

func (s *LedgerRepositorySuite) SetupSuite() {
	url := os.Getenv("PGSQL_TEST_URL")

	migrationDB, err := sql.Open("pgx", url)
	s.Require().NoError(err)
	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	s.Require().NoError(err)
	m, err := migrate.NewWithDatabaseInstance("file://../../../../migrations", "postgres", driver)
	s.Require().NoError(err)
	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		s.Require().NoError(err)
	}
	s.migrator = m

	pool, err := pgxpool.New(context.Background(), url)
	s.Require().NoError(err)
	s.pool = pool

	s.accountRepo = newPgxAccountRepository(pool)
	s.ledgerRepo = newPgxLedgerRepository(pool, s.accountRepo)
}

func (s *LedgerRepositorySuite) TearDownSuite() {
	if s.pool != nil {
		s.pool.Close()
	}
	if s.migrator != nil {
		_ = s.migrator.Down()
		_, _ = s.migrator.Close()
	}
}

// SetupTest resets the tables and seeds a reseller holding 500 credits and a
// business owner it manages holding none.
func (s *LedgerRepositorySuite) SetupTest() {
	ctx := context.Background()
	_, err := s.pool.Exec(ctx, `TRUNCATE entries, accounts, users RESTART IDENTITY CASCADE;`)
	s.Require().NoError(err)

	now := time.Now().UTC()
	s.adminID = uuid.NewString()

	resellerUserID := s.seedUser(ctx, domain.RoleReseller, now)
	ownerUserID := s.seedUser(ctx, domain.RoleBusinessOwner, now)

	audit := domain.AuditFields{CreatedAt: now, CreatedBy: s.adminID, LastUpdatedAt: now, LastUpdatedBy: s.adminID}
	s.resellerAcc = domain.Account{
		AccountID:   uuid.NewString(),
		UserID:      resellerUserID,
		Role:        domain.RoleReseller,
		Balance:     500,
		IsActive:    true,
		AuditFields: audit,
	}
	s.Require().NoError(s.accountRepo.SaveAccount(ctx, s.resellerAcc))

	s.ownerAcc = domain.Account{
		AccountID:        uuid.NewString(),
		UserID:           ownerUserID,
		Role:             domain.RoleBusinessOwner,
		Balance:          0,
		OwningResellerID: s.resellerAcc.AccountID,
		IsActive:         true,
		AuditFields:      audit,
	}
	s.Require().NoError(s.accountRepo.SaveAccount(ctx, s.ownerAcc))
}

func (s *LedgerRepositorySuite) seedUser(ctx context.Context, role domain.Role, now time.Time) string {
	userID := uuid.NewString()
	username := "u-" + userID[:13]
	_, err := s.pool.Exec(ctx, `
		INSERT INTO users (user_id, name, username, email, role, password_hash, created_at, created_by, last_updated_at, last_updated_by)
		VALUES ($1, $2, $3, $4, $5, 'x', $6, $7, $6, $7);`,
		userID, username, username, username+"@example.com", string(role), now, s.adminID)
	s.Require().NoError(err)
	return userID
}

func (s *LedgerRepositorySuite) newEntry(from, to string, amount int64, key *string) domain.LedgerEntry {
	return domain.LedgerEntry{
		FromAccountID:  from,
		ToAccountID:    to,
		Amount:         amount,
		IdempotencyKey: key,
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      s.adminID,
	}
}

func (s *LedgerRepositorySuite) balanceOf(ctx context.Context, accountID string) int64 {
	acc, err := s.accountRepo.FindAccountByID(ctx, accountID)
	s.Require().NoError(err)
	return acc.Balance
}

func (s *LedgerRepositorySuite) countEntries(ctx context.Context) int64 {
	var n int64
	s.Require().NoError(s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries;`).Scan(&n))
	return n
}

func (s *LedgerRepositorySuite) TestSaveEntry_TransferMovesBalancesAtomically() {
	ctx := context.Background()

	saved, err := s.ledgerRepo.SaveEntry(ctx, s.newEntry(s.resellerAcc.AccountID, s.ownerAcc.AccountID, 200, nil))
	s.Require().NoError(err)
	s.Require().NotZero(saved.EntryID)
	s.Equal(int64(300), saved.FromBalanceAfter)
	s.Equal(int64(200), saved.ToBalanceAfter)

	s.Equal(int64(300), s.balanceOf(ctx, s.resellerAcc.AccountID))
	s.Equal(int64(200), s.balanceOf(ctx, s.ownerAcc.AccountID))

	got, err := s.ledgerRepo.FindEntryByID(ctx, saved.EntryID)
	s.Require().NoError(err)
	s.Equal(saved.EntryID, got.EntryID)
	s.Equal(s.resellerAcc.AccountID, got.FromAccountID)
	s.Equal(s.ownerAcc.AccountID, got.ToAccountID)
	s.Equal(int64(200), got.Amount)
	s.Nil(got.IdempotencyKey)
}

func (s *LedgerRepositorySuite) TestSaveEntry_InsufficientFundsUnderLock() {
	ctx := context.Background()

	_, err := s.ledgerRepo.SaveEntry(ctx, s.newEntry(s.resellerAcc.AccountID, s.ownerAcc.AccountID, 501, nil))
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrInsufficientFunds)

	// Nothing moved and nothing was recorded.
	s.Equal(int64(500), s.balanceOf(ctx, s.resellerAcc.AccountID))
	s.Equal(int64(0), s.balanceOf(ctx, s.ownerAcc.AccountID))
	s.Equal(int64(0), s.countEntries(ctx))
}

func (s *LedgerRepositorySuite) TestSaveEntry_DuplicateIdempotencyKey() {
	ctx := context.Background()
	key := "order-42"

	first, err := s.ledgerRepo.SaveEntry(ctx, s.newEntry(s.resellerAcc.AccountID, s.ownerAcc.AccountID, 100, &key))
	s.Require().NoError(err)

	_, err = s.ledgerRepo.SaveEntry(ctx, s.newEntry(s.resellerAcc.AccountID, s.ownerAcc.AccountID, 100, &key))
	s.Require().Error(err)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	// The retry was rolled back: a single debit, a single entry.
	s.Equal(int64(400), s.balanceOf(ctx, s.resellerAcc.AccountID))
	s.Equal(int64(100), s.balanceOf(ctx, s.ownerAcc.AccountID))
	s.Equal(int64(1), s.countEntries(ctx))

	winner, err := s.ledgerRepo.FindEntryByIdempotencyKey(ctx, key)
	s.Require().NoError(err)
	s.Equal(first.EntryID, winner.EntryID)
}

func (s *LedgerRepositorySuite) TestSaveEntry_IssuanceCreditsReceiverOnly() {
	ctx := context.Background()

	// No account row exists for the system sentinel; only the receiver is
	// locked and credited.
	saved, err := s.ledgerRepo.SaveEntry(ctx, s.newEntry(domain.SystemAccountID, s.resellerAcc.AccountID, 250, nil))
	s.Require().NoError(err)
	s.Equal(int64(0), saved.FromBalanceAfter)
	s.Equal(int64(750), saved.ToBalanceAfter)

	s.Equal(int64(750), s.balanceOf(ctx, s.resellerAcc.AccountID))
	s.Equal(int64(0), s.balanceOf(ctx, s.ownerAcc.AccountID))
}

func (s *LedgerRepositorySuite) TestSaveEntry_ConcurrentOverdraftExactlyOneWins() {
	ctx := context.Background()

	// Two transfers race for the reseller's full balance. The row lock
	// serializes them and the funds re-check rejects the loser.
	errCh := make(chan error, 2)
	for i := 0; i < 2; i++ {
		go func() {
			_, err := s.ledgerRepo.SaveEntry(ctx, s.newEntry(s.resellerAcc.AccountID, s.ownerAcc.AccountID, 500, nil))
			errCh <- err
		}()
	}

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-errCh; err != nil {
			failures = append(failures, err)
		}
	}
	s.Require().Len(failures, 1)
	s.ErrorIs(failures[0], apperrors.ErrInsufficientFunds)

	s.Equal(int64(0), s.balanceOf(ctx, s.resellerAcc.AccountID))
	s.Equal(int64(500), s.balanceOf(ctx, s.ownerAcc.AccountID))
	s.Equal(int64(1), s.countEntries(ctx))
}
