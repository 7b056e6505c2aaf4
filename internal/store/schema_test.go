package store

import (
	"context"
	"reflect"
	"strings"
	"testing"
)

// TestEnsureSchema_CreatesAllTables checks every entity table exists
// after setup.
func TestEnsureSchema_CreatesAllTables(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for _, table := range TableNames() {
		row, err := s.Get(ctx,
			"SELECT COUNT(*) AS n FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err != nil {
			t.Fatalf("failed to query sqlite_master: %v", err)
		}
		if row.Int64("n") != 1 {
			t.Errorf("table %s does not exist", table)
		}
	}
}

// TestEnsureSchema_Idempotent verifies that repeated setup leaves the
// column set unchanged.
func TestEnsureSchema_Idempotent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	before := make(map[string][]string)
	for _, table := range TableNames() {
		cols, err := s.TableColumns(ctx, table)
		if err != nil {
			t.Fatalf("TableColumns(%s) failed: %v", table, err)
		}
		before[table] = cols
	}

	for i := 0; i < 3; i++ {
		if err := s.EnsureSchema(ctx); err != nil {
			t.Fatalf("EnsureSchema() run %d failed: %v", i+2, err)
		}
	}

	for _, table := range TableNames() {
		cols, err := s.TableColumns(ctx, table)
		if err != nil {
			t.Fatalf("TableColumns(%s) failed: %v", table, err)
		}
		if !reflect.DeepEqual(cols, before[table]) {
			t.Errorf("columns of %s changed across runs: %v -> %v", table, before[table], cols)
		}
	}
}

// TestEnsureColumn_AddsMissingColumn covers the additive upgrade path.
func TestEnsureColumn_AddsMissingColumn(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.EnsureColumn(ctx, "reports", "weather", "TEXT", "'clear'"); err != nil {
		t.Fatalf("EnsureColumn() failed: %v", err)
	}

	cols, err := s.TableColumns(ctx, "reports")
	if err != nil {
		t.Fatalf("TableColumns() failed: %v", err)
	}
	found := false
	for _, c := range cols {
		if c == "weather" {
			found = true
		}
	}
	if !found {
		t.Fatalf("weather column missing after EnsureColumn: %v", cols)
	}

	// Second call must be a no-op, not an ALTER failure.
	if err := s.EnsureColumn(ctx, "reports", "weather", "TEXT", "'clear'"); err != nil {
		t.Errorf("EnsureColumn() second call failed: %v", err)
	}
}

// TestInventoryUpgradeColumns verifies the shipped extension columns
// land on every startup.
func TestInventoryUpgradeColumns(t *testing.T) {
	s := newTestStore(t)

	cols, err := s.TableColumns(context.Background(), "inventory")
	if err != nil {
		t.Fatalf("TableColumns() failed: %v", err)
	}

	want := []string{"category", "quantity", "supplier", "expiry_date"}
	have := make(map[string]bool, len(cols))
	for _, c := range cols {
		have[c] = true
	}
	for _, w := range want {
		if !have[w] {
			t.Errorf("inventory missing upgrade column %s", w)
		}
	}
}

// TestCreateSQL_Dialects spot-checks the rendered DDL per dialect.
func TestCreateSQL_Dialects(t *testing.T) {
	var users table
	for _, tb := range tables {
		if tb.name == "users" {
			users = tb
		}
	}

	sqlite := users.createSQL(TypeSQLite)
	if !strings.Contains(sqlite, "INTEGER PRIMARY KEY AUTOINCREMENT") {
		t.Errorf("sqlite DDL missing autoincrement pk:\n%s", sqlite)
	}
	if !strings.Contains(sqlite, "DATETIME DEFAULT CURRENT_TIMESTAMP") {
		t.Errorf("sqlite DDL missing datetime created_at:\n%s", sqlite)
	}

	pg := users.createSQL(TypePostgres)
	if !strings.Contains(pg, "SERIAL PRIMARY KEY") {
		t.Errorf("postgres DDL missing serial pk:\n%s", pg)
	}
	if !strings.Contains(pg, "TIMESTAMP DEFAULT CURRENT_TIMESTAMP") {
		t.Errorf("postgres DDL missing timestamp created_at:\n%s", pg)
	}
	if strings.Contains(pg, "AUTOINCREMENT") {
		t.Errorf("postgres DDL leaked sqlite syntax:\n%s", pg)
	}
}
