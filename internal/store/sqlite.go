package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
)

func init() {
	Register(TypeSQLite, openSQLite)
}

// sqliteDriver serves the embedded file engine over database/sql.
// The generated primary key comes from the driver's last-insert-rowid
// facility, and WAL mode allows concurrent readers during writes.
type sqliteDriver struct {
	conn *sql.DB
	path string
}

// openSQLite creates the database file (and parent directory) if needed.
// Pragmas ride on the connection string so every pooled connection gets
// WAL, a busy timeout, and the foreign-key enforcement that cascade
// deletes depend on.
func openSQLite(cfg Config) (Driver, error) {
	path := cfg.Path
	if path == "" {
		path = "voltdesk.db"
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	connStr := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)", path)
	conn, err := sql.Open("sqlite3", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	conn.SetMaxOpenConns(25)
	conn.SetMaxIdleConns(5)
	conn.SetConnMaxLifetime(5 * time.Minute)

	return &sqliteDriver{conn: conn, path: path}, nil
}

func (d *sqliteDriver) Type() Type {
	return TypeSQLite
}

func (d *sqliteDriver) Run(ctx context.Context, query string, args ...any) (Result, error) {
	res, err := d.conn.ExecContext(ctx, query, args...)
	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return Result{}, fmt.Errorf("%w: %v", ErrUniqueViolation, err)
		}
		return Result{}, fmt.Errorf("sqlite exec failed: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		id = 0
	}
	changes, err := res.RowsAffected()
	if err != nil {
		changes = 0
	}
	return Result{LastInsertID: id, RowsAffected: changes}, nil
}

func (d *sqliteDriver) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := d.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (d *sqliteDriver) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := d.conn.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("sqlite query failed: %w", err)
	}
	defer rows.Close()

	return scanSQLRows(rows)
}

// Close checkpoints the WAL so all changes land in the main file, then
// releases the connection pool.
func (d *sqliteDriver) Close() error {
	if d.conn == nil {
		return nil
	}
	if _, err := d.conn.Exec("PRAGMA wal_checkpoint(TRUNCATE)"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: failed to checkpoint WAL: %v\n", err)
	}
	if err := d.conn.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	d.conn = nil
	return nil
}

// scanSQLRows converts database/sql result rows into the uniform Row
// shape. BLOB/text columns arrive as []byte and are normalized to
// strings so both drivers hand repositories the same types.
func scanSQLRows(rows *sql.Rows) ([]Row, error) {
	cols, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to read columns: %w", err)
	}

	var out []Row
	for rows.Next() {
		values := make([]any, len(cols))
		ptrs := make([]any, len(cols))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		row := make(Row, len(cols))
		for i, col := range cols {
			v := values[i]
			if b, ok := v.([]byte); ok {
				v = string(b)
			}
			row[col] = v
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return out, nil
}
