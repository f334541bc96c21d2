package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
)

var (
	ErrOwningResellerRequired = fmt.Errorf("%w: business owners must name their managing reseller account", apperrors.ErrValidation)
	ErrOwnerNotReseller       = fmt.Errorf("%w: owning account must belong to a reseller", apperrors.ErrValidation)
	ErrRoleHoldsNoCredits     = fmt.Errorf("%w: admins do not hold credit accounts", apperrors.ErrValidation)
)

// accountService manages credit account lifecycle. Balances are never touched
// here; only the transfer engine mutates them.
type accountService struct {
	BaseService
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewAccountService creates a new AccountService.
func NewAccountService(accountRepo portsrepo.AccountRepositoryFacade) portssvc.AccountSvcFacade {
	return &accountService{accountRepo: accountRepo}
}

var _ portssvc.AccountSvcFacade = (*accountService)(nil)

// GetAccountByID retrieves an account by its id.
func (s *accountService) GetAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByID(ctx, accountID)
}

// GetAccountForUser retrieves the account linked to an identity.
func (s *accountService) GetAccountForUser(ctx context.Context, userID string) (*domain.Account, error) {
	return s.accountRepo.FindAccountByUserID(ctx, userID)
}

// ProvisionAccount creates the credit account for a newly registered user.
// Accounts start at zero balance; credits arrive through issuance or
// transfer, never at creation.
func (s *accountService) ProvisionAccount(ctx context.Context, user domain.User, owningResellerAccountID string) (*domain.Account, error) {
	switch user.Role {
	case domain.RoleReseller:
		if owningResellerAccountID != "" {
			return nil, fmt.Errorf("%w: resellers are not managed by another reseller", apperrors.ErrValidation)
		}
	case domain.RoleBusinessOwner:
		if owningResellerAccountID == "" {
			return nil, ErrOwningResellerRequired
		}
		owner, err := s.accountRepo.FindAccountByID(ctx, owningResellerAccountID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: owning reseller account %s", apperrors.ErrNotFound, owningResellerAccountID)
			}
			return nil, err
		}
		if owner.Role != domain.RoleReseller {
			return nil, ErrOwnerNotReseller
		}
	default:
		return nil, ErrRoleHoldsNoCredits
	}

	now := time.Now().UTC()
	account := domain.Account{
		AccountID:        uuid.NewString(),
		UserID:           user.UserID,
		Role:             user.Role,
		Balance:          0,
		OwningResellerID: owningResellerAccountID,
		IsActive:         true,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     user.CreatedBy,
			LastUpdatedAt: now,
			LastUpdatedBy: user.CreatedBy,
		},
	}

	if err := s.accountRepo.SaveAccount(ctx, account); err != nil {
		s.LogError(ctx, err, "failed to provision account", slog.String("user_id", user.UserID))
		return nil, err
	}

	s.LogInfo(ctx, "account provisioned",
		slog.String("account_id", account.AccountID),
		slog.String("role", string(account.Role)))
	return &account, nil
}

// DeactivateAccount marks the account inactive. Balance and ledger history
// are retained so past entries still resolve.
func (s *accountService) DeactivateAccount(ctx context.Context, accountID string, actorUserID string) error {
	return s.accountRepo.DeactivateAccount(ctx, accountID, actorUserID, time.Now().UTC())
}
