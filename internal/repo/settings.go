package repo

import (
	"context"
	"fmt"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// Settings is the repository for user-scoped key-value configuration.
// One logical value exists per (user, key) pair; Set replaces it.
type Settings struct {
	store *store.Store
}

// NewSettings creates a settings repository over the given store.
func NewSettings(s *store.Store) *Settings {
	return &Settings{store: s}
}

func settingFromRow(r store.Row) *model.Setting {
	if r == nil {
		return nil
	}
	return &model.Setting{
		ID:        r.Int64("id"),
		UserID:    r.Int64("user_id"),
		Key:       r.String("setting_key"),
		Value:     r.String("setting_value"),
		CreatedAt: r.Time("created_at"),
	}
}

// Get returns the value for one key, or nil when unset.
func (r *Settings) Get(ctx context.Context, userID int64, key string) (*model.Setting, error) {
	row, err := r.store.Get(ctx,
		"SELECT id, user_id, setting_key, setting_value, created_at FROM settings WHERE user_id = ? AND setting_key = ?",
		userID, key)
	if err != nil {
		return nil, fmt.Errorf("failed to get setting %s for user %d: %w", key, userID, err)
	}
	return settingFromRow(row), nil
}

// Set upserts the value for one key. Both engines take the same
// conflict clause on the (user_id, setting_key) unique pair.
func (r *Settings) Set(ctx context.Context, userID int64, key, value string) error {
	_, err := r.store.Run(ctx,
		`INSERT INTO settings (user_id, setting_key, setting_value) VALUES (?, ?, ?)
		 ON CONFLICT (user_id, setting_key) DO UPDATE SET setting_value = excluded.setting_value`,
		userID, key, value)
	if err != nil {
		return fmt.Errorf("failed to set setting %s for user %d: %w", key, userID, err)
	}
	return nil
}

// All returns every setting for the user.
func (r *Settings) All(ctx context.Context, userID int64) ([]*model.Setting, error) {
	rows, err := r.store.All(ctx,
		"SELECT id, user_id, setting_key, setting_value, created_at FROM settings WHERE user_id = ? ORDER BY setting_key",
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list settings for user %d: %w", userID, err)
	}
	settings := make([]*model.Setting, 0, len(rows))
	for _, row := range rows {
		settings = append(settings, settingFromRow(row))
	}
	return settings, nil
}

// Delete removes one key. Returns whether a value existed.
func (r *Settings) Delete(ctx context.Context, userID int64, key string) (bool, error) {
	res, err := r.store.Run(ctx,
		"DELETE FROM settings WHERE user_id = ? AND setting_key = ?", userID, key)
	if err != nil {
		return false, fmt.Errorf("failed to delete setting %s for user %d: %w", key, userID, err)
	}
	return res.RowsAffected == 1, nil
}
