package services

import (
	"context"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// AccountReaderSvc exposes account lookups to other services and handlers.
type AccountReaderSvc interface {
	// GetAccountByID retrieves an account by its id.
	GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error)

	// GetAccountForUser retrieves the account linked to an identity.
	GetAccountForUser(ctx context.Context, userID string) (*domain.Account, error)
}

// AccountSvcFacade combines account operations. Account provisioning happens
// when the owning identity is registered; deactivation is a soft delete that
// retains balance and history.
type AccountSvcFacade interface {
	AccountReaderSvc

	// ProvisionAccount creates the credit account for a newly registered
	// user. owningResellerAccountID must be set for business owners and
	// empty otherwise.
	ProvisionAccount(ctx context.Context, user domain.User, owningResellerAccountID string) (*domain.Account, error)

	// DeactivateAccount marks the account inactive.
	DeactivateAccount(ctx context.Context, accountID string, actorUserID string) error
}
