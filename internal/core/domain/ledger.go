package domain

import "time"

// LedgerEntry is the immutable record of one completed credit movement.
// Entries are append-only: they are never updated or deleted, and their IDs
// are assigned by the store in strictly increasing creation order.
type LedgerEntry struct {
	EntryID          int64     `json:"entryID"`
	FromAccountID    string    `json:"fromAccountID"` // SystemAccountID for issuances
	ToAccountID      string    `json:"toAccountID"`
	Amount           int64     `json:"amount"` // Positive credit amount
	FromBalanceAfter int64     `json:"fromBalanceAfter"`
	ToBalanceAfter   int64     `json:"toBalanceAfter"`
	Note             string    `json:"note,omitempty"`
	IdempotencyKey   *string   `json:"idempotencyKey,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"` // Acting user ID
}

// IsIssuance reports whether the entry minted credits from the sentinel
// system account rather than moving them between parties.
func (e LedgerEntry) IsIssuance() bool {
	return e.FromAccountID == SystemAccountID
}
