package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// Users is the repository for portal accounts.
type Users struct {
	store *store.Store
}

// NewUsers creates a user repository over the given store.
func NewUsers(s *store.Store) *Users {
	return &Users{store: s}
}

const userColumns = "id, staff_id, password, email, role, name, phone, reset_token, token_expiry, last_login, created_at"

// userFromRow is the single place user columns become a model.User.
func userFromRow(r store.Row) *model.User {
	if r == nil {
		return nil
	}
	u := &model.User{
		ID:        r.Int64("id"),
		StaffID:   r.String("staff_id"),
		Password:  r.String("password"),
		Email:     r.String("email"),
		Role:      r.String("role"),
		Name:      r.String("name"),
		Phone:     r.String("phone"),
		CreatedAt: r.Time("created_at"),
	}
	u.ResetToken = r.NullString("reset_token")
	u.TokenExpiry = r.NullTime("token_expiry")
	u.LastLogin = r.NullTime("last_login")
	return u
}

// Create inserts a new account and returns its id. The password must
// already be hashed. Returns ErrStaffIDTaken when the handle is in use.
func (r *Users) Create(ctx context.Context, u *model.User) (int64, error) {
	role := u.Role
	if role == "" {
		role = model.RoleStaff
	}

	res, err := r.store.Run(ctx,
		"INSERT INTO users (staff_id, password, email, role, name, phone) VALUES (?, ?, ?, ?, ?, ?)",
		u.StaffID, u.Password, u.Email, role, u.Name, u.Phone)
	if err != nil {
		if errors.Is(err, store.ErrUniqueViolation) {
			return 0, fmt.Errorf("%w: %s", ErrStaffIDTaken, u.StaffID)
		}
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return res.LastInsertID, nil
}

// GetByID returns the account, or nil when it does not exist.
func (r *Users) GetByID(ctx context.Context, id int64) (*model.User, error) {
	row, err := r.store.Get(ctx, "SELECT "+userColumns+" FROM users WHERE id = ?", id)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return userFromRow(row), nil
}

// GetByStaffID returns the account with the given handle, or nil.
func (r *Users) GetByStaffID(ctx context.Context, staffID string) (*model.User, error) {
	row, err := r.store.Get(ctx, "SELECT "+userColumns+" FROM users WHERE staff_id = ?", staffID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", staffID, err)
	}
	return userFromRow(row), nil
}

// List returns all accounts, newest first.
func (r *Users) List(ctx context.Context) ([]*model.User, error) {
	rows, err := r.store.All(ctx, "SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	users := make([]*model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, userFromRow(row))
	}
	return users, nil
}

// Update replaces the mutable profile columns (email, role, name,
// phone). Password and reset credentials have dedicated operations.
// Returns whether exactly one row changed.
func (r *Users) Update(ctx context.Context, id int64, u *model.User) (bool, error) {
	res, err := r.store.Run(ctx,
		"UPDATE users SET email = ?, role = ?, name = ?, phone = ? WHERE id = ?",
		u.Email, u.Role, u.Name, u.Phone, id)
	if err != nil {
		return false, fmt.Errorf("failed to update user %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// UpdatePassword replaces the stored hash.
func (r *Users) UpdatePassword(ctx context.Context, id int64, hash string) (bool, error) {
	res, err := r.store.Run(ctx, "UPDATE users SET password = ? WHERE id = ?", hash, id)
	if err != nil {
		return false, fmt.Errorf("failed to update password for user %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// UpdateLastLogin stamps the account's last successful login.
func (r *Users) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.store.Run(ctx, "UPDATE users SET last_login = CURRENT_TIMESTAMP WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to update last_login for user %d: %w", id, err)
	}
	return nil
}

// SetResetToken stores the credential-reset pair. Both values are
// written together to keep the both-or-neither invariant.
func (r *Users) SetResetToken(ctx context.Context, id int64, token string, expiry time.Time) (bool, error) {
	res, err := r.store.Run(ctx,
		"UPDATE users SET reset_token = ?, token_expiry = ? WHERE id = ?",
		token, expiry, id)
	if err != nil {
		return false, fmt.Errorf("failed to set reset token for user %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}

// ClearResetToken removes the credential-reset pair.
func (r *Users) ClearResetToken(ctx context.Context, id int64) error {
	_, err := r.store.Run(ctx,
		"UPDATE users SET reset_token = NULL, token_expiry = NULL WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to clear reset token for user %d: %w", id, err)
	}
	return nil
}

// Delete hard-deletes the account. Child rows cascade: reports,
// inventory, toolbox forms, settings, login logs and assigned tasks go
// with it; tasks the user assigned to others keep running with a nil
// assigner. Returns whether exactly one row changed.
func (r *Users) Delete(ctx context.Context, id int64) (bool, error) {
	res, err := r.store.Run(ctx, "DELETE FROM users WHERE id = ?", id)
	if err != nil {
		return false, fmt.Errorf("failed to delete user %d: %w", id, err)
	}
	return res.RowsAffected == 1, nil
}
