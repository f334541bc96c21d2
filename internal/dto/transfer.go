package dto

import (
	"time"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// CreateTransferRequest is the payload for creating a credit transfer.
// FromAccountID is only honoured for admin callers acting on a reseller's
// behalf; everyone else transfers from their own account.
type CreateTransferRequest struct {
	FromAccountID  string  `json:"fromAccountID,omitempty"`
	ToAccountID    string  `json:"toAccountID" binding:"required"`
	Amount         int64   `json:"amount" binding:"required"`
	Note           string  `json:"note,omitempty"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty" binding:"omitempty,idempotencykey"`
}

// IssueCreditsRequest is the payload for an admin credit issuance.
type IssueCreditsRequest struct {
	ToAccountID    string  `json:"toAccountID" binding:"required"`
	Amount         int64   `json:"amount" binding:"required"`
	Note           string  `json:"note,omitempty"`
	IdempotencyKey *string `json:"idempotencyKey,omitempty" binding:"omitempty,idempotencykey"`
}

// ListTransfersParams carries list filters bound from query parameters.
type ListTransfersParams struct {
	Limit           int        `form:"limit"`
	NextToken       *string    `form:"nextToken"`
	From            *time.Time `form:"from" time_format:"2006-01-02T15:04:05Z07:00"`
	To              *time.Time `form:"to" time_format:"2006-01-02T15:04:05Z07:00"`
	CounterpartRole *string    `form:"counterpartRole"`
	Descending      bool       `form:"descending"`
}

// TransferResponse defines the data returned for a ledger entry.
type TransferResponse struct {
	EntryID          int64     `json:"entryID"`
	FromAccountID    string    `json:"fromAccountID"`
	ToAccountID      string    `json:"toAccountID"`
	Amount           int64     `json:"amount"`
	FromBalanceAfter int64     `json:"fromBalanceAfter"`
	ToBalanceAfter   int64     `json:"toBalanceAfter"`
	Note             string    `json:"note,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
	CreatedBy        string    `json:"createdBy"`
}

// ListTransfersResponse is a single page of ledger entries.
type ListTransfersResponse struct {
	Transfers []TransferResponse `json:"transfers"`
	NextToken *string            `json:"nextToken,omitempty"`
}

// ToTransferResponse converts a domain.LedgerEntry to its response DTO.
func ToTransferResponse(e *domain.LedgerEntry) TransferResponse {
	return TransferResponse{
		EntryID:          e.EntryID,
		FromAccountID:    e.FromAccountID,
		ToAccountID:      e.ToAccountID,
		Amount:           e.Amount,
		FromBalanceAfter: e.FromBalanceAfter,
		ToBalanceAfter:   e.ToBalanceAfter,
		Note:             e.Note,
		CreatedAt:        e.CreatedAt,
		CreatedBy:        e.CreatedBy,
	}
}

// ToTransferResponses converts a slice of domain entries.
func ToTransferResponses(entries []domain.LedgerEntry) []TransferResponse {
	responses := make([]TransferResponse, len(entries))
	for i := range entries {
		responses[i] = ToTransferResponse(&entries[i])
	}
	return responses
}
