package repositories

import (
	"context"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// ReportingRepository defines read-only aggregate queries over the entry log
// and account balances. Implementations must read both from one consistent
// snapshot so balances and entry aggregates always reconcile.
type ReportingRepository interface {
	// GetAccountActivity computes entry-derived totals for one account:
	// total sent, total received, entry count, first/last entry time.
	GetAccountActivity(ctx context.Context, accountID string) (*domain.AccountStats, error)

	// GetPlatformTotals computes circulation (sum of balances), transfer
	// count, transfer volume, and total issued credits.
	GetPlatformTotals(ctx context.Context) (*domain.PlatformSummary, error)

	// GetResellerBreakdown summarises distribution activity per reseller.
	GetResellerBreakdown(ctx context.Context) ([]domain.ResellerBreakdownRow, error)
}
