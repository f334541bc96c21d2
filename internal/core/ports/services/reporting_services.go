package services

import (
	"context"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// ReportingSvcFacade is the read-only aggregation surface. It never mutates
// state and always reflects a consistent snapshot of balances and entries.
type ReportingSvcFacade interface {
	// AccountStats aggregates one account's ledger history and current balance.
	AccountStats(ctx context.Context, accountID string) (*domain.AccountStats, error)

	// PlatformSummary aggregates circulation, transfer totals, and the
	// per-reseller breakdown.
	PlatformSummary(ctx context.Context) (*domain.PlatformSummary, error)
}
