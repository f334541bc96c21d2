package mapping

import (
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	"github.com/wapify/credit_ledger_app/internal/models"
)

// ToDomainLedgerEntry converts a DB entry row to the domain representation.
func ToDomainLedgerEntry(m models.LedgerEntry) domain.LedgerEntry {
	return domain.LedgerEntry{
		EntryID:          m.EntryID,
		FromAccountID:    m.FromAccountID,
		ToAccountID:      m.ToAccountID,
		Amount:           m.Amount,
		FromBalanceAfter: m.FromBalanceAfter,
		ToBalanceAfter:   m.ToBalanceAfter,
		Note:             m.Note,
		IdempotencyKey:   m.IdempotencyKey,
		CreatedAt:        m.CreatedAt,
		CreatedBy:        m.CreatedBy,
	}
}

// ToDomainLedgerEntrySlice converts a slice of DB entry rows.
func ToDomainLedgerEntrySlice(ms []models.LedgerEntry) []domain.LedgerEntry {
	entries := make([]domain.LedgerEntry, len(ms))
	for i, m := range ms {
		entries[i] = ToDomainLedgerEntry(m)
	}
	return entries
}
