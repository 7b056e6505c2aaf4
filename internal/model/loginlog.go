package model

import "time"

// LoginLogEntry records one login attempt. UserID is nil when the
// attempt failed before a user row could be resolved; StaffID is kept
// denormalized so failed attempts remain attributable. Entries are
// append-only and never mutated.
type LoginLogEntry struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"user_id,omitempty"`
	StaffID   string    `json:"staff_id"`
	LoginType string    `json:"login_type"`
	IPAddress string    `json:"ip_address"`
	UserAgent string    `json:"user_agent"`
	Success   bool      `json:"success"`
	CreatedAt time.Time `json:"created_at"`
}
