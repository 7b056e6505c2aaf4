package store

import (
	"context"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestSeedAccounts_FirstRun(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accounts := []SeedAccount{
		{StaffID: "admin", Password: "secret", Role: "admin", Name: "Admin"},
		{StaffID: "s1", Password: "pw", Role: "staff", Name: "Staff One"},
	}
	if err := s.SeedAccounts(ctx, accounts, bcrypt.MinCost); err != nil {
		t.Fatalf("SeedAccounts() failed: %v", err)
	}

	if n := s.CountRows(ctx, "users"); n != 2 {
		t.Fatalf("users = %d, want 2", n)
	}

	row, err := s.Get(ctx, "SELECT password, role FROM users WHERE staff_id = ?", "admin")
	if err != nil || row == nil {
		t.Fatalf("admin account missing: %v", err)
	}
	if row.String("role") != "admin" {
		t.Errorf("role = %q, want admin", row.String("role"))
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.String("password")), []byte("secret")); err != nil {
		t.Errorf("stored password is not a valid bcrypt hash of the seed password: %v", err)
	}
}

// TestSeedAccounts_UpsertKeepsPassword verifies repeated seeding is an
// update, not a duplicate insert, and never rewrites passwords.
func TestSeedAccounts_UpsertKeepsPassword(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	accounts := []SeedAccount{{StaffID: "admin", Password: "secret", Role: "admin", Name: "Admin"}}
	if err := s.SeedAccounts(ctx, accounts, bcrypt.MinCost); err != nil {
		t.Fatalf("first SeedAccounts() failed: %v", err)
	}

	row, _ := s.Get(ctx, "SELECT password FROM users WHERE staff_id = ?", "admin")
	originalHash := row.String("password")

	accounts[0].Name = "Renamed Admin"
	accounts[0].Password = "different"
	if err := s.SeedAccounts(ctx, accounts, bcrypt.MinCost); err != nil {
		t.Fatalf("second SeedAccounts() failed: %v", err)
	}

	if n := s.CountRows(ctx, "users"); n != 1 {
		t.Fatalf("users = %d after reseed, want 1", n)
	}

	row, _ = s.Get(ctx, "SELECT password, name FROM users WHERE staff_id = ?", "admin")
	if row.String("password") != originalHash {
		t.Error("reseeding overwrote the existing password hash")
	}
	if row.String("name") != "Renamed Admin" {
		t.Errorf("name = %q, want refreshed value", row.String("name"))
	}
}
