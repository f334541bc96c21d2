package mapping

import (
	"github.com/wapify/credit_ledger_app/internal/core/domain"
	"github.com/wapify/credit_ledger_app/internal/models"
)

// ToModelAccount converts a domain.Account to its DB representation.
func ToModelAccount(d domain.Account) models.Account {
	return models.Account{
		AccountID:        d.AccountID,
		UserID:           d.UserID,
		Role:             models.Role(d.Role),
		Balance:          d.Balance,
		OwningResellerID: d.OwningResellerID,
		IsActive:         d.IsActive,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			CreatedBy:     d.CreatedBy,
			LastUpdatedAt: d.LastUpdatedAt,
			LastUpdatedBy: d.LastUpdatedBy,
		},
	}
}

// ToDomainAccount converts a DB account row to the domain representation.
func ToDomainAccount(m models.Account) domain.Account {
	return domain.Account{
		AccountID:        m.AccountID,
		UserID:           m.UserID,
		Role:             domain.Role(m.Role),
		Balance:          m.Balance,
		OwningResellerID: m.OwningResellerID,
		IsActive:         m.IsActive,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			CreatedBy:     m.CreatedBy,
			LastUpdatedAt: m.LastUpdatedAt,
			LastUpdatedBy: m.LastUpdatedBy,
		},
	}
}
