package domain

import (
	"fmt"

	"github.com/wapify/credit_ledger_app/internal/apperrors"
)

// Hierarchy policy: credits only ever flow downward, Reseller to Business
// Owner, and only within an ownership relationship. The checks are pure so
// they can be tested without a store.

var (
	ErrSenderNotReseller      = fmt.Errorf("%w: only resellers may send credits", apperrors.ErrForbidden)
	ErrReceiverNotOwner       = fmt.Errorf("%w: credits may only be sent to business owners", apperrors.ErrForbidden)
	ErrNotOwnedByReseller     = fmt.Errorf("%w: business owner is not managed by the sending reseller", apperrors.ErrForbidden)
	ErrActorNotSender         = fmt.Errorf("%w: transfers may only be initiated by the sending reseller", apperrors.ErrForbidden)
	ErrIssuerNotAdmin         = fmt.Errorf("%w: only admins may issue credits", apperrors.ErrForbidden)
	ErrIssueTargetNotReseller = fmt.Errorf("%w: credits may only be issued to resellers", apperrors.ErrForbidden)
)

// AuthorizeTransfer decides whether the acting user may move credits from one
// account to another. Admins may initiate on behalf of any reseller for
// operational correction; such transfers are tagged in the entry note by the
// transfer engine.
func AuthorizeTransfer(actorUserID string, actorRole Role, from, to Account) error {
	if from.Role != RoleReseller {
		return ErrSenderNotReseller
	}
	if to.Role != RoleBusinessOwner {
		return ErrReceiverNotOwner
	}
	if to.OwningResellerID != from.AccountID {
		return ErrNotOwnedByReseller
	}
	if actorRole != RoleAdmin && actorUserID != from.UserID {
		return ErrActorNotSender
	}
	return nil
}

// AuthorizeIssuance decides whether the acting user may mint credits into a
// reseller account from the sentinel system account.
func AuthorizeIssuance(actorRole Role, to Account) error {
	if actorRole != RoleAdmin {
		return ErrIssuerNotAdmin
	}
	if to.Role != RoleReseller {
		return ErrIssueTargetNotReseller
	}
	return nil
}
