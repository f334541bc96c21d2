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
	"github.com/wapify/credit_ledger_app/internal/dto"
	"github.com/wapify/credit_ledger_app/internal/utils"
)

// userService manages platform identities. Registering a credit-holding role
// also provisions the linked account so the two never drift apart.
type userService struct {
	BaseService
	userRepo   portsrepo.UserRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
}

// NewUserService creates a new UserService.
func NewUserService(userRepo portsrepo.UserRepositoryFacade, accountSvc portssvc.AccountSvcFacade) portssvc.UserSvcFacade {
	return &userService{
		userRepo:   userRepo,
		accountSvc: accountSvc,
	}
}

var _ portssvc.UserSvcFacade = (*userService)(nil)

// RegisterUser creates a new user and, for resellers and business owners,
// provisions the linked credit account.
func (s *userService) RegisterUser(ctx context.Context, req dto.RegisterUserRequest) (*domain.User, *domain.Account, error) {
	role := domain.Role(req.Role)

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		s.LogError(ctx, err, "failed to hash password")
		return nil, nil, apperrors.NewAppError(500, "failed to hash password", err)
	}

	now := time.Now().UTC()
	userID := uuid.NewString()
	user := domain.User{
		UserID:       userID,
		Name:         req.Name,
		Username:     req.Username,
		Email:        req.Email,
		Role:         role,
		PasswordHash: hash,
		BusinessName: req.BusinessName,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			CreatedBy:     userID,
			LastUpdatedAt: now,
			LastUpdatedBy: userID,
		},
	}

	if err := s.userRepo.SaveUser(ctx, user); err != nil {
		return nil, nil, err
	}

	var account *domain.Account
	if role == domain.RoleReseller || role == domain.RoleBusinessOwner {
		account, err = s.accountSvc.ProvisionAccount(ctx, user, req.OwningResellerAccountID)
		if err != nil {
			// Orphaned identity without an account cannot transact; surface
			// the failure so the caller retries registration.
			s.LogError(ctx, err, "user saved but account provisioning failed",
				slog.String("user_id", user.UserID))
			return nil, nil, err
		}
	}

	s.LogInfo(ctx, "user registered",
		slog.String("user_id", user.UserID),
		slog.String("role", string(role)))
	return &user, account, nil
}

// AuthenticateUser verifies username/password credentials. The same error is
// returned for unknown usernames and wrong passwords.
func (s *userService) AuthenticateUser(ctx context.Context, username string, password string) (*domain.User, error) {
	user, err := s.userRepo.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
		}
		return nil, err
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		return nil, fmt.Errorf("%w: invalid credentials", apperrors.ErrUnauthorized)
	}

	return user, nil
}

// GetUserByID retrieves a user by id.
func (s *userService) GetUserByID(ctx context.Context, userID string) (*domain.User, error) {
	return s.userRepo.FindUserByID(ctx, userID)
}

// ListUsers retrieves a paginated user list.
func (s *userService) ListUsers(ctx context.Context, params dto.ListUsersParams) ([]domain.User, error) {
	limit := params.Limit
	if limit <= 0 || limit > maxListLimit {
		limit = 50
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	return s.userRepo.ListUsers(ctx, limit, offset)
}

// UpdateUser applies profile updates. Users may update themselves; admins may
// update anyone.
func (s *userService) UpdateUser(ctx context.Context, userID string, req dto.UpdateUserRequest, actorUserID string) (*domain.User, error) {
	if actorUserID != userID {
		actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve acting user: %w", err)
		}
		if actor.Role != domain.RoleAdmin {
			return nil, fmt.Errorf("%w: cannot update another user", apperrors.ErrForbidden)
		}
	}

	user, err := s.userRepo.FindUserByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = *req.Name
	}
	if req.BusinessName != nil {
		user.BusinessName = *req.BusinessName
	}
	user.LastUpdatedAt = time.Now().UTC()
	user.LastUpdatedBy = actorUserID

	if err := s.userRepo.UpdateUser(ctx, *user); err != nil {
		return nil, err
	}
	return user, nil
}

// DeactivateUser soft-deletes a user and deactivates their credit account.
// Historical ledger entries keep resolving the user.
func (s *userService) DeactivateUser(ctx context.Context, userID string, actorUserID string) error {
	if actorUserID != userID {
		actor, err := s.userRepo.FindUserByID(ctx, actorUserID)
		if err != nil {
			return fmt.Errorf("failed to resolve acting user: %w", err)
		}
		if actor.Role != domain.RoleAdmin {
			return fmt.Errorf("%w: cannot deactivate another user", apperrors.ErrForbidden)
		}
	}

	now := time.Now().UTC()
	if err := s.userRepo.MarkUserDeleted(ctx, userID, actorUserID, now); err != nil {
		return err
	}

	account, err := s.accountSvc.GetAccountForUser(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Admins have no account to deactivate
			return nil
		}
		return err
	}
	return s.accountSvc.DeactivateAccount(ctx, account.AccountID, actorUserID)
}
