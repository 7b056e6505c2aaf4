package store

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// SeedAccount describes one account created on first run.
type SeedAccount struct {
	StaffID  string
	Password string
	Role     string
	Name     string
	Email    string
}

// DefaultSeedAccounts are the demo accounts a fresh portal starts with.
// Operators are expected to rotate these passwords immediately.
var DefaultSeedAccounts = []SeedAccount{
	{StaffID: "admin", Password: "admin123", Role: "admin", Name: "Administrator", Email: "admin@voltdesk.local"},
	{StaffID: "tech1", Password: "tech123", Role: "staff", Name: "Field Technician 1", Email: "tech1@voltdesk.local"},
	{StaffID: "tech2", Password: "tech123", Role: "staff", Name: "Field Technician 2", Email: "tech2@voltdesk.local"},
}

// SeedAccounts upserts the given accounts keyed by staff_id: an existing
// account keeps its password and gets its role/name/email refreshed; a
// missing one is inserted with a bcrypt hash at the given cost.
// Safe to call on every startup.
func (s *Store) SeedAccounts(ctx context.Context, accounts []SeedAccount, cost int) error {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}

	for _, a := range accounts {
		row, err := s.Get(ctx, "SELECT id FROM users WHERE staff_id = ?", a.StaffID)
		if err != nil {
			return fmt.Errorf("failed to look up seed account %s: %w", a.StaffID, err)
		}

		if row != nil {
			_, err := s.Run(ctx,
				"UPDATE users SET role = ?, name = ?, email = ? WHERE staff_id = ?",
				a.Role, a.Name, a.Email, a.StaffID)
			if err != nil {
				return fmt.Errorf("failed to refresh seed account %s: %w", a.StaffID, err)
			}
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(a.Password), cost)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", a.StaffID, err)
		}

		_, err = s.Run(ctx,
			"INSERT INTO users (staff_id, password, email, role, name) VALUES (?, ?, ?, ?, ?)",
			a.StaffID, string(hash), a.Email, a.Role, a.Name)
		if err != nil {
			return fmt.Errorf("failed to insert seed account %s: %w", a.StaffID, err)
		}
		s.logger.Printf("Seeded account %s (%s)", a.StaffID, a.Role)
	}
	return nil
}
