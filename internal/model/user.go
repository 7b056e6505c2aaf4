// Package model defines the domain entities persisted by the portal:
// users, work reports, inventory items, toolbox safety forms, tasks,
// per-user settings and login log entries.
//
// Field names follow Go conventions; the storage layer maps them to the
// snake_case column names that form the wire contract with existing
// deployments. All mapping lives in internal/repo, never in callers.
package model

import (
	"fmt"
	"time"
)

// Role values for User.Role.
const (
	RoleAdmin = "admin"
	RoleStaff = "staff"
)

// User is a portal account. StaffID is the unique human-facing handle
// used for login; ID is the surrogate key referenced by child records.
type User struct {
	ID       int64  `json:"id"`
	StaffID  string `json:"staff_id"`
	Password string `json:"-"` // bcrypt hash, never serialized
	Email    string `json:"email,omitempty"`
	Role     string `json:"role"`
	Name     string `json:"name,omitempty"`
	Phone    string `json:"phone,omitempty"`

	// ResetToken and TokenExpiry are a transient credential-reset pair:
	// both set or both nil.
	ResetToken  *string    `json:"-"`
	TokenExpiry *time.Time `json:"-"`

	LastLogin *time.Time `json:"last_login,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

// Validate checks the fields required to create a User.
func (u *User) Validate() error {
	if u.StaffID == "" {
		return fmt.Errorf("staff_id is required")
	}
	if u.Password == "" {
		return fmt.Errorf("password is required")
	}
	if u.Role != "" && u.Role != RoleAdmin && u.Role != RoleStaff {
		return fmt.Errorf("role must be %q or %q (got %q)", RoleAdmin, RoleStaff, u.Role)
	}
	if (u.ResetToken == nil) != (u.TokenExpiry == nil) {
		return fmt.Errorf("reset_token and token_expiry must be set together")
	}
	return nil
}

// IsAdmin reports whether the user holds the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
