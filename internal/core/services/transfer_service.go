package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	portsrepo "github.com/wapify/credit_ledger_app/internal/core/ports/repositories"
	portssvc "github.com/wapify/credit_ledger_app/internal/core/ports/services"
	"github.com/wapify/credit_ledger_app/internal/dto"
)

var (
	ErrAmountNotPositive = fmt.Errorf("%w: amount must be a positive whole number of credits", apperrors.ErrValidation)
	// A self-transfer can never satisfy the hierarchy, so it is denied
	// rather than rejected as malformed input.
	ErrSelfTransfer = fmt.Errorf("%w: sender and receiver must differ", apperrors.ErrForbidden)
	// Deactivated accounts are reported the same as missing ones.
	ErrAccountInactive    = fmt.Errorf("%w: account is deactivated", apperrors.ErrNotFound)
	ErrBadCounterpartRole = fmt.Errorf("%w: counterpartRole must be a known role", apperrors.ErrValidation)
)

const maxListLimit = 200

// transferService is the transfer engine. Every credit movement on the
// platform, transfer or issuance, goes through here.
type transferService struct {
	BaseService
	ledgerRepo portsrepo.LedgerRepositoryFacade
	accountSvc portssvc.AccountSvcFacade
	userSvc    portssvc.UserSvcFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountSvc portssvc.AccountSvcFacade, userSvc portssvc.UserSvcFacade) portssvc.TransferSvcFacade {
	return &transferService{
		ledgerRepo: ledgerRepo,
		accountSvc: accountSvc,
		userSvc:    userSvc,
	}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

// CreateTransfer validates and executes one credit movement. Checks run in a
// fixed order so callers get deterministic errors: amount first, then account
// resolution, then hierarchy policy, then funds. The funds check is repeated
// inside the store transaction under the row lock.
func (s *transferService) CreateTransfer(ctx context.Context, actorUserID string, req dto.CreateTransferRequest) (*domain.LedgerEntry, error) {
	if req.Amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}

	from, err := s.resolveFromAccount(ctx, actor, req.FromAccountID)
	if err != nil {
		return nil, err
	}
	to, err := s.accountSvc.GetAccountByID(ctx, req.ToAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: receiving account %s", apperrors.ErrNotFound, req.ToAccountID)
		}
		return nil, err
	}

	if from.AccountID == to.AccountID {
		return nil, ErrSelfTransfer
	}
	if !from.IsActive || !to.IsActive {
		return nil, ErrAccountInactive
	}

	if err := domain.AuthorizeTransfer(actorUserID, actor.Role, *from, *to); err != nil {
		s.LogInfo(ctx, "transfer rejected by hierarchy policy",
			slog.String("actor_user_id", actorUserID),
			slog.String("from_account_id", from.AccountID),
			slog.String("to_account_id", to.AccountID),
			slog.String("reason", err.Error()))
		return nil, err
	}

	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		if existing, err := s.ledgerRepo.FindEntryByIdempotencyKey(ctx, *req.IdempotencyKey); err == nil {
			s.LogInfo(ctx, "idempotent transfer resubmission, returning original entry",
				slog.Int64("entry_id", existing.EntryID))
			return existing, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	if from.Balance < req.Amount {
		return nil, fmt.Errorf("%w: account %s has %d, needs %d",
			apperrors.ErrInsufficientFunds, from.AccountID, from.Balance, req.Amount)
	}

	note := req.Note
	if actor.Role == domain.RoleAdmin && actor.UserID != from.UserID {
		// Correction on a reseller's behalf; mark it so the history shows
		// who really moved the credits.
		note = strings.TrimSpace("[admin correction] " + note)
	}

	entry := domain.LedgerEntry{
		FromAccountID:  from.AccountID,
		ToAccountID:    to.AccountID,
		Amount:         req.Amount,
		Note:           note,
		IdempotencyKey: normalizeKey(req.IdempotencyKey),
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      actorUserID,
	}

	return s.persistEntry(ctx, entry)
}

// IssueCredits mints credits into a reseller account from the sentinel system
// account. This is the only way circulation grows.
func (s *transferService) IssueCredits(ctx context.Context, actorUserID string, req dto.IssueCreditsRequest) (*domain.LedgerEntry, error) {
	if req.Amount <= 0 {
		return nil, ErrAmountNotPositive
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}

	to, err := s.accountSvc.GetAccountByID(ctx, req.ToAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: receiving account %s", apperrors.ErrNotFound, req.ToAccountID)
		}
		return nil, err
	}
	if !to.IsActive {
		return nil, ErrAccountInactive
	}

	if err := domain.AuthorizeIssuance(actor.Role, *to); err != nil {
		return nil, err
	}

	if req.IdempotencyKey != nil && *req.IdempotencyKey != "" {
		if existing, err := s.ledgerRepo.FindEntryByIdempotencyKey(ctx, *req.IdempotencyKey); err == nil {
			return existing, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			return nil, err
		}
	}

	entry := domain.LedgerEntry{
		FromAccountID:  domain.SystemAccountID,
		ToAccountID:    to.AccountID,
		Amount:         req.Amount,
		Note:           req.Note,
		IdempotencyKey: normalizeKey(req.IdempotencyKey),
		CreatedAt:      time.Now().UTC(),
		CreatedBy:      actorUserID,
	}

	saved, err := s.persistEntry(ctx, entry)
	if err != nil {
		return nil, err
	}
	s.LogInfo(ctx, "credits issued",
		slog.Int64("entry_id", saved.EntryID),
		slog.String("to_account_id", saved.ToAccountID),
		slog.Int64("amount", saved.Amount))
	return saved, nil
}

// GetTransfer retrieves a single ledger entry by id. Admins may read any
// entry; everyone else only entries where their own account is a party.
func (s *transferService) GetTransfer(ctx context.Context, actorUserID string, entryID int64) (*domain.LedgerEntry, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, err
	}

	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}
	if actor.Role == domain.RoleAdmin {
		return entry, nil
	}

	account, err := s.accountSvc.GetAccountForUser(ctx, actorUserID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: cannot view another account's entries", apperrors.ErrForbidden)
		}
		return nil, err
	}
	if entry.FromAccountID != account.AccountID && entry.ToAccountID != account.AccountID {
		return nil, fmt.Errorf("%w: cannot view another account's entries", apperrors.ErrForbidden)
	}
	return entry, nil
}

// ListTransfersForAccount retrieves a page of entries touching the account.
// Admins may list any account; everyone else only their own.
func (s *transferService) ListTransfersForAccount(ctx context.Context, actorUserID string, accountID string, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error) {
	actor, err := s.userSvc.GetUserByID(ctx, actorUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve acting user: %w", err)
	}

	account, err := s.accountSvc.GetAccountByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if actor.Role != domain.RoleAdmin && account.UserID != actorUserID {
		return nil, fmt.Errorf("%w: cannot list another account's transfers", apperrors.ErrForbidden)
	}

	filter := portsrepo.ListEntriesFilter{
		From:       params.From,
		To:         params.To,
		Descending: params.Descending,
		Limit:      clampLimit(params.Limit),
		NextToken:  params.NextToken,
	}
	if params.CounterpartRole != nil && *params.CounterpartRole != "" {
		role := domain.Role(*params.CounterpartRole)
		switch role {
		case domain.RoleAdmin, domain.RoleReseller, domain.RoleBusinessOwner:
			filter.CounterpartRole = &role
		default:
			return nil, ErrBadCounterpartRole
		}
	}

	entries, nextToken, err := s.ledgerRepo.ListEntriesForAccount(ctx, accountID, filter)
	if err != nil {
		return nil, err
	}

	return &dto.ListTransfersResponse{
		Transfers: dto.ToTransferResponses(entries),
		NextToken: nextToken,
	}, nil
}

// resolveFromAccount decides which account the credits leave. Only admins may
// name an explicit source account; everyone else sends from their own.
func (s *transferService) resolveFromAccount(ctx context.Context, actor *domain.User, fromAccountID string) (*domain.Account, error) {
	if fromAccountID == "" {
		acc, err := s.accountSvc.GetAccountForUser(ctx, actor.UserID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: acting user has no credit account", apperrors.ErrNotFound)
			}
			return nil, err
		}
		return acc, nil
	}

	if actor.Role != domain.RoleAdmin {
		return nil, fmt.Errorf("%w: only admins may name a source account", apperrors.ErrForbidden)
	}
	acc, err := s.accountSvc.GetAccountByID(ctx, fromAccountID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: source account %s", apperrors.ErrNotFound, fromAccountID)
		}
		return nil, err
	}
	return acc, nil
}

// persistEntry runs the store's atomic unit and resolves the losing side of
// an idempotency race: if another request with the same key committed first,
// return that original entry.
func (s *transferService) persistEntry(ctx context.Context, entry domain.LedgerEntry) (*domain.LedgerEntry, error) {
	saved, err := s.ledgerRepo.SaveEntry(ctx, entry)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) && entry.IdempotencyKey != nil {
			existing, findErr := s.ledgerRepo.FindEntryByIdempotencyKey(ctx, *entry.IdempotencyKey)
			if findErr == nil {
				return existing, nil
			}
		}
		s.LogError(ctx, err, "failed to persist ledger entry",
			slog.String("from_account_id", entry.FromAccountID),
			slog.String("to_account_id", entry.ToAccountID))
		return nil, err
	}
	return saved, nil
}

func normalizeKey(key *string) *string {
	if key == nil || *key == "" {
		return nil
	}
	return key
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return 50
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
