package services

import (
	"context"
	"time"

	"github.com/wapify/credit_ledger_app/internal/core/domain"
)

// TokenSvcFacade handles JWT access token issuance.
type TokenSvcFacade interface {
	// GenerateAccessToken creates a signed access token for the user and
	// returns it together with its expiry time.
	GenerateAccessToken(ctx context.Context, user *domain.User) (string, time.Time, error)
}
