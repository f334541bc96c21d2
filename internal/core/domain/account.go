package domain

// Role defines who an account belongs to in the distribution hierarchy.
type Role string

const (
	RoleAdmin         Role = "ADMIN"
	RoleReseller      Role = "RESELLER"
	RoleBusinessOwner Role = "BUSINESS_OWNER"
)

// SystemAccountID is the sentinel from-account used for credit issuance.
// Issued credits still produce a ledger entry so that circulation changes
// are always traceable to an entry.
const SystemAccountID = "system"

// Account represents a credit-holding party, either a Reseller or a Business
// Owner. Balance is a whole number of credits and is mutated exclusively by
// the transfer engine inside its atomic unit.
type Account struct {
	AccountID        string `json:"accountID"` // Primary Key (UUID)
	UserID           string `json:"userID"`    // Owning identity (users.user_id)
	Role             Role   `json:"role"`      // RESELLER or BUSINESS_OWNER
	Balance          int64  `json:"balance"`   // Non-negative credit amount
	OwningResellerID string `json:"owningResellerID,omitempty"` // Set iff Role == BUSINESS_OWNER
	IsActive         bool   `json:"isActive"`
	AuditFields
}
