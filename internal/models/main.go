// Package models defines the core data structures for users and resident records.
package models

// Role is the coarse authorization tag carried by every user.
type Role string

const (
	// RoleUser may list, read and submit resident records.
	RoleUser Role = "user"
	// RoleAdmin may additionally edit and delete resident records.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents an application user with credentials.
type User struct {
	// ID is the storage-assigned identifier for the user.
	ID int64 `db:"id" json:"id"`
	// Username is the login name chosen by the user.
	Username string `db:"username" json:"username"`
	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string `db:"password_hash" json:"-"`
	// Role gates access to admin-only operations.
	Role Role `db:"role" json:"role"`
}

// Identity is the minimal authenticated identity used for authorization.
type Identity struct {
	Username string `json:"username"`
	Role     Role   `json:"role"`
}

// IsAdmin reports whether the identity may edit and delete records.
func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
