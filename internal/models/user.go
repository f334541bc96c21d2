package models

import "time"

// User represents an identity row.
type User struct {
	UserID       string `db:"user_id"`
	Name         string `db:"name"`
	Username     string `db:"username"`
	Email        string `db:"email"`
	Role         Role   `db:"role"`
	PasswordHash string `db:"password_hash"`
	BusinessName string `db:"business_name"` // Nullable
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
