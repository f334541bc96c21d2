package domain

import "time"

// AccountStats aggregates the ledger history of a single account. Totals are
// computed from ledger entries, balances from the account row; the two always
// reconcile because both are written inside the transfer engine's atomic unit.
type AccountStats struct {
	AccountID      string     `json:"accountID"`
	Role           Role       `json:"role"`
	CurrentBalance int64      `json:"currentBalance"`
	TotalSent      int64      `json:"totalSent"`
	TotalReceived  int64      `json:"totalReceived"`
	EntryCount     int64      `json:"entryCount"`
	FirstEntryTime *time.Time `json:"firstEntryTime,omitempty"`
	LastEntryTime  *time.Time `json:"lastEntryTime,omitempty"`
}

// ResellerBreakdownRow summarises one reseller's distribution activity for
// the platform summary.
type ResellerBreakdownRow struct {
	ResellerAccountID  string `json:"resellerAccountID"`
	ResellerName       string `json:"resellerName"`
	Balance            int64  `json:"balance"`
	TotalDistributed   int64  `json:"totalDistributed"`
	TransferCount      int64  `json:"transferCount"`
	BusinessOwnerCount int64  `json:"businessOwnerCount"`
}

// PlatformSummary is the platform-wide view of the credit system.
// TotalInCirculation equals the sum of all account balances; only issuances
// change it, transfers never do.
type PlatformSummary struct {
	TotalInCirculation int64                  `json:"totalInCirculation"`
	TotalTransfers     int64                  `json:"totalTransfers"`
	TotalVolume        int64                  `json:"totalVolume"`
	TotalIssued        int64                  `json:"totalIssued"`
	PerReseller        []ResellerBreakdownRow `json:"perReseller"`
}
