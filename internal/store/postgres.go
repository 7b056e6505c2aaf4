package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

func init() {
	Register(TypePostgres, openPostgres)
}

// Pool bounds. Exhaustion queues callers within the acquire timeout
// rather than failing them outright.
const (
	pgMaxConns       = 20
	pgConnectTimeout = 2 * time.Second
	pgIdleTimeout    = 30 * time.Second
)

// postgresDriver serves PostgreSQL through a pgx connection pool.
// Queries arrive with ?-style placeholders and are rewritten to $N in
// one place; generated primary keys come from RETURNING id.
type postgresDriver struct {
	pool *pgxpool.Pool
}

func openPostgres(cfg Config) (Driver, error) {
	if cfg.DSN == "" {
		return nil, fmt.Errorf("postgresql backend requires a connection string")
	}

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("invalid connection string: %w", err)
	}
	poolCfg.MaxConns = pgMaxConns
	poolCfg.MaxConnIdleTime = pgIdleTimeout
	poolCfg.ConnConfig.ConnectTimeout = pgConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pgConnectTimeout)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &postgresDriver{pool: pool}, nil
}

func (d *postgresDriver) Type() Type {
	return TypePostgres
}

// isInsert reports whether the statement is an INSERT.
func isInsert(query string) bool {
	return strings.HasPrefix(strings.ToUpper(strings.TrimSpace(query)), "INSERT")
}

func (d *postgresDriver) Run(ctx context.Context, query string, args ...any) (Result, error) {
	q := translatePlaceholders(query)

	// PostgreSQL has no last-insert-rowid; the generated key must come
	// back through RETURNING. Every entity table names its key "id".
	if isInsert(q) && !strings.Contains(strings.ToUpper(q), "RETURNING") {
		q += " RETURNING id"
	}

	if strings.Contains(strings.ToUpper(q), "RETURNING") {
		rows, err := d.pool.Query(ctx, q, args...)
		if err != nil {
			return Result{}, wrapPgError(err)
		}
		var id int64
		for rows.Next() {
			var raw any
			if err := rows.Scan(&raw); err != nil {
				rows.Close()
				return Result{}, fmt.Errorf("failed to scan returned id: %w", err)
			}
			id = Row{"id": raw}.Int64("id")
		}
		rows.Close()
		if err := rows.Err(); err != nil {
			return Result{}, wrapPgError(err)
		}
		return Result{LastInsertID: id, RowsAffected: rows.CommandTag().RowsAffected()}, nil
	}

	tag, err := d.pool.Exec(ctx, q, args...)
	if err != nil {
		return Result{}, wrapPgError(err)
	}
	return Result{RowsAffected: tag.RowsAffected()}, nil
}

func (d *postgresDriver) Get(ctx context.Context, query string, args ...any) (Row, error) {
	rows, err := d.All(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (d *postgresDriver) All(ctx context.Context, query string, args ...any) ([]Row, error) {
	rows, err := d.pool.Query(ctx, translatePlaceholders(query), args...)
	if err != nil {
		return nil, wrapPgError(err)
	}
	defer rows.Close()

	fields := rows.FieldDescriptions()
	var out []Row
	for rows.Next() {
		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("failed to read row values: %w", err)
		}
		row := make(Row, len(fields))
		for i, f := range fields {
			row[string(f.Name)] = values[i]
		}
		out = append(out, row)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapPgError(err)
	}
	return out, nil
}

func (d *postgresDriver) Close() error {
	d.pool.Close()
	return nil
}

// wrapPgError maps SQLSTATE 23505 onto the shared unique-violation
// sentinel and wraps everything else unchanged.
func wrapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return fmt.Errorf("%w: %v", ErrUniqueViolation, err)
	}
	return fmt.Errorf("postgres query failed: %w", err)
}
