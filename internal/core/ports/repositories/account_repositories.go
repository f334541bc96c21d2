package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves a specific account by its unique identifier.
	FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// FindAccountByUserID retrieves the credit account linked to an identity.
	FindAccountByUserID(ctx context.Context, userID string) (*domain.Account, error)

	// FindAccountsByIDs retrieves multiple accounts by their IDs.
	FindAccountsByIDs(ctx context.Context, accountIDs []string) (map[string]domain.Account, error)
}

// AccountWriter defines write operations for account data.
// Balance columns are never touched here; all balance mutation happens inside
// the ledger repository's atomic unit.
type AccountWriter interface {
	// SaveAccount persists a new account.
	SaveAccount(ctx context.Context, account domain.Account) error

	// DeactivateAccount marks an account as inactive. Balance and ledger
	// history are retained.
	DeactivateAccount(ctx context.Context, accountID string, userID string, now time.Time) error
}

// AccountTransactionSupport defines operations used inside the transfer
// engine's database transaction.
type AccountTransactionSupport interface {
	// FindAccountsByIDsForUpdate selects accounts and locks their rows for
	// update within a transaction. Rows are locked in ascending account id
	// order so that concurrent transfers over the same pair cannot deadlock.
	FindAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []string) (map[string]domain.Account, error)

	// ApplyBalanceDeltasInTx adjusts the balance of multiple accounts within
	// a given transaction.
	ApplyBalanceDeltasInTx(ctx context.Context, tx pgx.Tx, deltas map[string]int64, userID string, now time.Time) error
}

// AccountRepositoryFacade combines all account-related repository interfaces.
type AccountRepositoryFacade interface {
	AccountReader
	AccountWriter
	AccountTransactionSupport
}
