package services

import (
	"context"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
	"github.com/wapify/credit_ledger_app/internal/dto"
)

// TransferSvcFacade is the transfer engine's service surface. Every mutation
// of credit balances on the platform goes through it.
type TransferSvcFacade interface {
	// CreateTransfer validates and executes a credit transfer as one atomic
	// unit. Validation order is fixed: amount, account resolution, hierarchy
	// policy, funds. The returned entry is the durable confirmation.
	CreateTransfer(ctx context.Context, actorUserID string, req dto.CreateTransferRequest) (*domain.LedgerEntry, error)

	// IssueCredits mints credits into a reseller account from the sentinel
	// system account. Admin only.
	IssueCredits(ctx context.Context, actorUserID string, req dto.IssueCreditsRequest) (*domain.LedgerEntry, error)

	// GetTransfer retrieves a single ledger entry by id. Admins may read
	// any entry; everyone else only entries where their own account is a
	// party.
	GetTransfer(ctx context.Context, actorUserID string, entryID int64) (*domain.LedgerEntry, error)

	// ListTransfersForAccount retrieves a page of entries touching the
	// account, with an id-based cursor for the next page.
	ListTransfersForAccount(ctx context.Context, actorUserID string, accountID string, params dto.ListTransfersParams) (*dto.ListTransfersResponse, error)
}
