package model

import "time"

// Setting is one user-scoped configuration value. The store holds one
// logical value per (user, key) pair; Set replaces any existing value.
type Setting struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Key       string    `json:"setting_key"`
	Value     string    `json:"setting_value"`
	CreatedAt time.Time `json:"created_at"`
}
