package services

import (
	"context"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
	"github.com/wapify/credit_ledger_app/internal/dto"
)

// UserSvcFacade covers user identity management. Registering a reseller or
// business owner also provisions the linked credit account.
type UserSvcFacade interface {
	// RegisterUser creates a new user and, for credit-holding roles, the
	// linked account.
	RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, *domain.Account, error)

	// AuthenticateUser verifies username/password credentials.
	AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error)

	// GetUserByID retrieves a user by id.
	GetUserByID(ctx context.Context, userID string) (*domain.User, error)

	// ListUsers retrieves a paginated user list.
	ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error)

	// UpdateUser applies profile updates.
	UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actorUserID string) (*domain.User, error)

	// DeactivateUser soft-deletes a user and deactivates their account.
	// Ledger history is retained.
	DeactivateUser(ctx context.Context, userID string, actorUserID string) error
}
