package dto

import (
	"time"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// RegisterUserRequest is the payload for registering a new user. Registering
// a reseller or business owner also provisions the linked credit account;
// business owners must name the reseller that manages them.
type RegisterUserRequest struct {
	Name                    string `json:"name" binding:"required"`
	Username                string `json:"username" binding:"required,min=3"`
	Email                   string `json:"email" binding:"required,email"`
	Password                string `json:"password" binding:"required,min=8"`
	Role                    string `json:"role" binding:"required,oneof=ADMIN RESELLER BUSINESS_OWNER"`
	BusinessName            string `json:"businessName,omitempty"`
	OwningResellerAccountID string `json:"owningResellerAccountID,omitempty"`
}

// LoginRequest is the payload for username/password authentication.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UpdateUserRequest carries optional user profile updates.
type UpdateUserRequest struct {
	Name         *string `json:"name,omitempty"`
	BusinessName *string `json:"businessName,omitempty"`
}

// ListUsersParams carries pagination bound from query parameters.
type ListUsersParams struct {
	Limit  int `form:"limit"`
	Offset int `form:"offset"`
}

// UserResponse defines the data returned for a user.
type UserResponse struct {
	UserID       string           `json:"userID"`
	Name         string           `json:"name"`
	Username     string           `json:"username"`
	Email        string           `json:"email"`
	Role         string           `json:"role"`
	BusinessName string           `json:"businessName,omitempty"`
	Account      *AccountResponse `json:"account,omitempty"`
	CreatedAt    time.Time        `json:"createdAt"`
}

// ToUserResponse converts a domain.User (and optional linked account) to its
// response DTO.
func ToUserResponse(u *domain.User, account *domain.Account) UserResponse {
	resp := UserResponse{
		UserID:       u.UserID,
		Name:         u.Name,
		Username:     u.Username,
		Email:        u.Email,
		Role:         string(u.Role),
		BusinessName: u.BusinessName,
		CreatedAt:    u.CreatedAt,
	}
	if account != nil {
		accResp := ToAccountResponse(account)
		resp.Account = &accResp
	}
	return resp
}
