package models

// Role mirrors domain.Role for DB storage.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleReseller      Role = "RESELLER"
	RoleBusinessOwner Role = "BUSINESS_OWNER"
)

// Account represents a credit account row.
// OwningResellerID uses string for the nullable foreign key; repositories
// handle NULL conversion on scan.
type Account struct {
	AccountID        string `db:"account_id"`
	UserID           string `db:"user_id"`
	Role             Role   `db:"role"`
	Balance          int64  `db:"balance"`
	OwningResellerID string `db:"owning_reseller_id"` // Nullable
	IsActive         bool   `db:"is_active"`
	AuditFields
}
