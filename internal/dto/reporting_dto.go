package dto

import (
	"time"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// AccountStatsResponse defines the aggregate view returned for one account.
type AccountStatsResponse struct {
	AccountID      string     `json:"accountID"`
	Role           string     `json:"role"`
	CurrentBalance int64      `json:"currentBalance"`
	TotalSent      int64      `json:"totalSent"`
	TotalReceived  int64      `json:"totalReceived"`
	EntryCount     int64      `json:"entryCount"`
	FirstEntryTime *time.Time `json:"firstEntryTime,omitempty"`
	LastEntryTime  *time.Time `json:"lastEntryTime,omitempty"`
}

// ResellerBreakdownResponse is one reseller's row in the platform summary.
type ResellerBreakdownResponse struct {
	ResellerAccountID  string `json:"resellerAccountID"`
	ResellerName       string `json:"resellerName"`
	Balance            int64  `json:"balance"`
	TotalDistributed   int64  `json:"totalDistributed"`
	TransferCount      int64  `json:"transferCount"`
	BusinessOwnerCount int64  `json:"businessOwnerCount"`
}

// PlatformSummaryResponse is the platform-wide aggregate view.
type PlatformSummaryResponse struct {
	TotalInCirculation int64                       `json:"totalInCirculation"`
	TotalTransfers     int64                       `json:"totalTransfers"`
	TotalVolume        int64                       `json:"totalVolume"`
	TotalIssued        int64                       `json:"totalIssued"`
	PerReseller        []ResellerBreakdownResponse `json:"perReseller"`
}

// ToAccountStatsResponse converts domain stats to the response DTO.
func ToAccountStatsResponse(s *domain.AccountStats) AccountStatsResponse {
	return AccountStatsResponse{
		AccountID:      s.AccountID,
		Role:           string(s.Role),
		CurrentBalance: s.CurrentBalance,
		TotalSent:      s.TotalSent,
		TotalReceived:  s.TotalReceived,
		EntryCount:     s.EntryCount,
		FirstEntryTime: s.FirstEntryTime,
		LastEntryTime:  s.LastEntryTime,
	}
}

// ToPlatformSummaryResponse converts the domain summary to the response DTO.
func ToPlatformSummaryResponse(s *domain.PlatformSummary) PlatformSummaryResponse {
	perReseller := make([]ResellerBreakdownResponse, len(s.PerReseller))
	for i, row := range s.PerReseller {
		perReseller[i] = ResellerBreakdownResponse{
			ResellerAccountID:  row.ResellerAccountID,
			ResellerName:       row.ResellerName,
			Balance:            row.Balance,
			TotalDistributed:   row.TotalDistributed,
			TransferCount:      row.TransferCount,
			BusinessOwnerCount: row.BusinessOwnerCount,
		}
	}
	return PlatformSummaryResponse{
		TotalInCirculation: s.TotalInCirculation,
		TotalTransfers:     s.TotalTransfers,
		TotalVolume:        s.TotalVolume,
		TotalIssued:        s.TotalIssued,
		PerReseller:        perReseller,
	}
}
