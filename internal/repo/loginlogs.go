package repo

import (
	"context"
	"fmt"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// LoginLogs is the append-only repository for login attempts. Entries
// are never updated or deleted; only a user cascade removes them.
type LoginLogs struct {
	store *store.Store
}

// NewLoginLogs creates a login-log repository over the given store.
func NewLoginLogs(s *store.Store) *LoginLogs {
	return &LoginLogs{store: s}
}

const loginLogColumns = "id, user_id, staff_id, login_type, ip_address, user_agent, success, created_at"

func entryFromRow(r store.Row) *model.LoginLogEntry {
	if r == nil {
		return nil
	}
	return &model.LoginLogEntry{
		ID:        r.Int64("id"),
		UserID:    r.NullInt64("user_id"),
		StaffID:   r.String("staff_id"),
		LoginType: r.String("login_type"),
		IPAddress: r.String("ip_address"),
		UserAgent: r.String("user_agent"),
		Success:   r.Bool("success"),
		CreatedAt: r.Time("created_at"),
	}
}

// Append records one login attempt and returns its id. UserID may be
// nil for failed attempts where the handle matched no account.
func (r *LoginLogs) Append(ctx context.Context, e *model.LoginLogEntry) (int64, error) {
	res, err := r.store.Run(ctx,
		`INSERT INTO login_logs (user_id, staff_id, login_type, ip_address, user_agent, success)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		e.UserID, e.StaffID, e.LoginType, e.IPAddress, e.UserAgent, e.Success)
	if err != nil {
		return 0, fmt.Errorf("failed to append login log: %w", err)
	}
	return res.LastInsertID, nil
}

// ListByUser returns the user's attempts, newest first.
func (r *LoginLogs) ListByUser(ctx context.Context, userID int64) ([]*model.LoginLogEntry, error) {
	rows, err := r.store.All(ctx,
		"SELECT "+loginLogColumns+" FROM login_logs WHERE user_id = ? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list login logs for user %d: %w", userID, err)
	}
	entries := make([]*model.LoginLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}

// Recent returns the most recent attempts across all users, for the
// admin audit view.
func (r *LoginLogs) Recent(ctx context.Context, limit int) ([]*model.LoginLogEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.store.All(ctx,
		"SELECT "+loginLogColumns+" FROM login_logs ORDER BY created_at DESC, id DESC LIMIT ?", limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent login logs: %w", err)
	}
	entries := make([]*model.LoginLogEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, entryFromRow(row))
	}
	return entries, nil
}
