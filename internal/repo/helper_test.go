package repo

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/voltdesk/voltdesk/internal/model"
	"github.com/voltdesk/voltdesk/internal/store"
)

// newTestStore opens a throwaway sqlite store with the schema applied.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	cfg := store.Config{
		Backend: "sqlite",
		Path:    filepath.Join(t.TempDir(), "test.db"),
	}
	s, err := store.Open(cfg, log.New(os.Stderr, "[test] ", log.LstdFlags))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	if err := s.EnsureSchema(context.Background()); err != nil {
		t.Fatalf("EnsureSchema() failed: %v", err)
	}
	return s
}

// createUser inserts a staff account and returns its id.
func createUser(t *testing.T, s *store.Store, staffID string) int64 {
	t.Helper()

	users := NewUsers(s)
	id, err := users.Create(context.Background(), &model.User{
		StaffID:  staffID,
		Password: "hashed-password",
		Role:     model.RoleStaff,
		Name:     "User " + staffID,
	})
	if err != nil {
		t.Fatalf("failed to create user %s: %v", staffID, err)
	}
	return id
}
