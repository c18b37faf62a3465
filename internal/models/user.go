package models

import (
	"database/sql"
	"time"
)

// User is a row of the users table.
type User struct {
	UserID         string         `db:"user_id"`
	Username       string         `db:"username"`
	PasswordHash   sql.NullString `db:"password_hash"` // Null for users that sign in with an external provider
	Name           string         `db:"name"`
	Email          sql.NullString `db:"email"`
	EmailVerified  bool           `db:"email_verified"`
	AuthProvider   string         `db:"auth_provider"`
	ProviderUserID sql.NullString `db:"provider_user_id"`
	AuditFields
	DeletedAt *time.Time `db:"deleted_at"`
}
