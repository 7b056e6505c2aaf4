// Package store provides the multi-backend persistence core for the portal.
//
// The same domain schema is served by two engines: embedded SQLite for
// zero-configuration local deployments, and PostgreSQL behind a connection
// pool for hosted ones. Both are hidden behind one uniform query contract:
//
//   - Run executes INSERT/UPDATE/DELETE and reports the generated primary
//     key (if any) and the number of affected rows.
//   - Get returns at most one row, or nil when nothing matched. Not-found
//     is not an error.
//   - All returns zero or more rows.
//
// Callers always write positional ?-style placeholders; the PostgreSQL
// driver translates them to $N internally. Exactly one driver is selected
// at startup (see Open) and shared process-wide until Close.
package store

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Type identifies a storage backend.
type Type string

const (
	// TypeSQLite is the embedded file engine, the default.
	TypeSQLite Type = "sqlite"

	// TypePostgres is the pooled PostgreSQL engine.
	TypePostgres Type = "postgresql"
)

// ErrUniqueViolation wraps engine-specific unique-constraint failures so
// repositories can map them without importing driver packages.
var ErrUniqueViolation = errors.New("unique constraint violation")

// Config selects and parameterizes a backend.
type Config struct {
	// Backend is "sqlite" or "postgresql". Empty defaults to sqlite.
	Backend string

	// Path is the SQLite database file path.
	Path string

	// DSN is the PostgreSQL connection string.
	DSN string
}

// Result reports the outcome of a mutating statement.
type Result struct {
	// LastInsertID is the generated primary key for INSERTs, 0 otherwise.
	LastInsertID int64

	// RowsAffected is the number of rows the statement changed.
	RowsAffected int64
}

// Driver is the uniform query contract each backend implements.
// Implementations register themselves with Register from init().
type Driver interface {
	Run(ctx context.Context, query string, args ...any) (Result, error)
	Get(ctx context.Context, query string, args ...any) (Row, error)
	All(ctx context.Context, query string, args ...any) ([]Row, error)
	Type() Type
	Close() error
}

// Store is the process-wide persistence handle used by every repository.
// It is created once at startup and closed during graceful shutdown.
type Store struct {
	driver Driver
	logger *log.Logger
}

// Run executes a mutating statement.
func (s *Store) Run(ctx context.Context, query string, args ...any) (Result, error) {
	return s.driver.Run(ctx, query, args...)
}

// Get returns at most one row, or nil when nothing matched.
func (s *Store) Get(ctx context.Context, query string, args ...any) (Row, error) {
	return s.driver.Get(ctx, query, args...)
}

// All returns every matching row.
func (s *Store) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	return s.driver.All(ctx, query, args...)
}

// Type returns the active backend, for diagnostic and admin tooling.
func (s *Store) Type() Type {
	return s.driver.Type()
}

// Close releases the underlying engine resources.
func (s *Store) Close() error {
	if err := s.driver.Close(); err != nil {
		return fmt.Errorf("failed to close %s store: %w", s.driver.Type(), err)
	}
	return nil
}

// CountRows returns the row count of a table for health checks and
// dashboard stats. Failures are logged and reported as zero: diagnostic
// reads must never take the portal down.
func (s *Store) CountRows(ctx context.Context, table string) int {
	row, err := s.Get(ctx, "SELECT COUNT(*) AS n FROM "+table)
	if err != nil {
		s.logger.Printf("Warning: failed to count rows in %s: %v", table, err)
		return 0
	}
	if row == nil {
		return 0
	}
	return int(row.Int64("n"))
}
