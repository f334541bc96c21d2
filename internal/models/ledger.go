package models

import "time"

// LedgerEntry represents a row in the append-only entries table. entry_id is
// a BIGSERIAL so creation order and id order coincide.
type LedgerEntry struct {
	EntryID          int64     `db:"entry_id"`
	FromAccountID    string    `db:"from_account_id"`
	ToAccountID      string    `db:"to_account_id"`
	Amount           int64     `db:"amount"`
	FromBalanceAfter int64     `db:"from_balance_after"`
	ToBalanceAfter   int64     `db:"to_balance_after"`
	Note             string    `db:"note"`
	IdempotencyKey   *string   `db:"idempotency_key"` // Nullable, unique when set
	CreatedAt        time.Time `db:"created_at"`
	CreatedBy        string    `db:"created_by"`
}
