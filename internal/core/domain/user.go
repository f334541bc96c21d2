package domain

import "time"

// User represents an identity on the platform. Credit balances live on the
// linked Account, not here.
type User struct {
	UserID       string `json:"userID"` // Primary Key (UUID)
	Name         string `json:"name"`
	Username     string `json:"username"`
	Email        string `json:"email"`
	Role         Role   `json:"role"`
	PasswordHash string `json:"-"`
	BusinessName string `json:"businessName,omitempty"`
	AuditFields
	DeletedAt *time.Time `json:"deletedAt,omitempty"` // Soft delete marker
}
