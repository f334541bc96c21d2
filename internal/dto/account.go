package dto

import (
	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// AccountResponse defines the data returned for a credit account.
type AccountResponse struct {
	AccountID        string `json:"accountID"`
	UserID           string `json:"userID"`
	Role             string `json:"role"`
	Balance          int64  `json:"balance"`
	OwningResellerID string `json:"owningResellerID,omitempty"`
	IsActive         bool   `json:"isActive"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:        a.AccountID,
		UserID:           a.UserID,
		Role:             string(a.Role),
		Balance:          a.Balance,
		OwningResellerID: a.OwningResellerID,
		IsActive:         a.IsActive,
	}
}
