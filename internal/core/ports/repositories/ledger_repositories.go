package repositories

import (
	"context"
	"time"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// ListEntriesFilter narrows ListEntriesForAccount results.
type ListEntriesFilter struct {
	From            *time.Time   // Inclusive lower bound on created_at
	To              *time.Time   // Inclusive upper bound on created_at
	CounterpartRole *domain.Role // Restrict to entries whose other party has this role
	Descending      bool         // Newest first when set; default is id ascending
	Limit           int
	NextToken       *string // Cursor from a previous page
}

// LedgerReader defines read operations over the append-only entry log.
type LedgerReader interface {
	// FindEntryByID retrieves a single ledger entry.
	FindEntryByID(ctx context.Context, entryID int64) (*domain.LedgerEntry, error)

	// FindEntryByIdempotencyKey retrieves the entry recorded for a prior
	// submission with the same key, if any.
	FindEntryByIdempotencyKey(ctx context.Context, key string) (*domain.LedgerEntry, error)

	// ListEntriesForAccount retrieves a page of entries where the account is
	// either party, ordered by entry id. Returns the page and a cursor for
	// the next one.
	ListEntriesForAccount(ctx context.Context, accountID string, filter ListEntriesFilter) ([]domain.LedgerEntry, *string, error)
}

// LedgerWriter owns the transfer engine's atomic unit.
type LedgerWriter interface {
	// SaveEntry executes one credit movement as a single database
	// transaction: lock both account rows (ascending id order), re-check the
	// sender's funds under the lock, apply both balance changes, and append
	// the entry capturing the post-transfer balances. Either everything
	// commits or nothing is visible. The returned entry carries the
	// store-assigned id and balance snapshots.
	//
	// A movement from domain.SystemAccountID (issuance) locks and credits
	// only the receiving account.
	SaveEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error)
}

// LedgerRepositoryFacade combines ledger read and write interfaces.
type LedgerRepositoryFacade interface {
	LedgerReader
	LedgerWriter
}
