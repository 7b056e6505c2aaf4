package store

import (
	"context"
	"fmt"
	"strings"
)

// column declares one table column in both dialects. When the two
// engines agree on the declaration, Postgres is left empty and the
// SQLite text is used for both.
type column struct {
	name     string
	sqlite   string
	postgres string
}

func (c column) decl(t Type) string {
	d := c.sqlite
	if t == TypePostgres && c.postgres != "" {
		d = c.postgres
	}
	return c.name + " " + d
}

// table declares one entity table. Constraints (foreign keys, unique
// pairs) are appended after the column list in both dialects.
type table struct {
	name        string
	columns     []column
	constraints []string
}

// pk and createdAt are the two declarations where the dialects differ
// on every table.
func pk() column {
	return column{name: "id", sqlite: "INTEGER PRIMARY KEY AUTOINCREMENT", postgres: "SERIAL PRIMARY KEY"}
}

func createdAt() column {
	return column{name: "created_at", sqlite: "DATETIME DEFAULT CURRENT_TIMESTAMP", postgres: "TIMESTAMP DEFAULT CURRENT_TIMESTAMP"}
}

func text(name string) column     { return column{name: name, sqlite: "TEXT"} }
func required(name string) column { return column{name: name, sqlite: "TEXT NOT NULL"} }

func boolean(name string) column {
	return column{name: name, sqlite: "INTEGER NOT NULL DEFAULT 0", postgres: "BOOLEAN NOT NULL DEFAULT FALSE"}
}

// tables is the canonical schema. Table and column names are part of
// the wire contract with existing deployment data and must not change.
var tables = []table{
	{
		name: "users",
		columns: []column{
			pk(),
			{name: "staff_id", sqlite: "TEXT NOT NULL UNIQUE"},
			required("password"),
			text("email"),
			{name: "role", sqlite: "TEXT NOT NULL DEFAULT 'staff'"},
			text("name"),
			text("phone"),
			text("reset_token"),
			{name: "token_expiry", sqlite: "DATETIME", postgres: "TIMESTAMP"},
			{name: "last_login", sqlite: "DATETIME", postgres: "TIMESTAMP"},
			createdAt(),
		},
	},
	{
		name: "reports",
		columns: []column{
			pk(),
			{name: "user_id", sqlite: "INTEGER NOT NULL"},
			required("title"),
			required("job_description"),
			required("location"),
			text("remarks"),
			required("report_date"),
			required("report_time"),
			text("tools_used"),
			{name: "status", sqlite: "TEXT NOT NULL DEFAULT 'Pending'"},
			createdAt(),
		},
		constraints: []string{
			"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		},
	},
	{
		name: "inventory",
		columns: []column{
			pk(),
			{name: "user_id", sqlite: "INTEGER NOT NULL"},
			required("product_type"),
			{name: "status", sqlite: "TEXT NOT NULL DEFAULT 'New'"},
			text("size"),
			text("serial_number"),
			text("date"),
			text("location"),
			text("issued_by"),
			createdAt(),
		},
		constraints: []string{
			"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		},
	},
	{
		name: "toolbox",
		columns: []column{
			pk(),
			{name: "user_id", sqlite: "INTEGER NOT NULL"},
			required("work_activity"),
			required("date"),
			required("work_location"),
			required("name_company"),
			required("sign"),
			required("ppe_no"),
			required("tools_used"),
			required("hazards"),
			text("circulars"),
			text("risk_assessment"),
			text("permit"),
			text("remarks"),
			required("prepared_by"),
			required("verified_by"),
			{name: "status", sqlite: "TEXT NOT NULL DEFAULT 'draft'"},
			createdAt(),
		},
		constraints: []string{
			"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		},
	},
	{
		name: "tasks",
		columns: []column{
			pk(),
			required("title"),
			text("description"),
			{name: "assigned_to", sqlite: "INTEGER NOT NULL"},
			{name: "assigned_by", sqlite: "INTEGER"},
			{name: "priority", sqlite: "TEXT NOT NULL DEFAULT 'medium'"},
			text("due_date"),
			{name: "status", sqlite: "TEXT NOT NULL DEFAULT 'pending'"},
			boolean("hidden_from_user"),
			createdAt(),
			{name: "updated_at", sqlite: "DATETIME DEFAULT CURRENT_TIMESTAMP", postgres: "TIMESTAMP DEFAULT CURRENT_TIMESTAMP"},
		},
		constraints: []string{
			"FOREIGN KEY (assigned_to) REFERENCES users(id) ON DELETE CASCADE",
			"FOREIGN KEY (assigned_by) REFERENCES users(id) ON DELETE SET NULL",
		},
	},
	{
		name: "settings",
		columns: []column{
			pk(),
			{name: "user_id", sqlite: "INTEGER NOT NULL"},
			required("setting_key"),
			required("setting_value"),
			createdAt(),
		},
		constraints: []string{
			"UNIQUE (user_id, setting_key)",
			"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		},
	},
	{
		name: "login_logs",
		columns: []column{
			pk(),
			{name: "user_id", sqlite: "INTEGER"},
			required("staff_id"),
			text("login_type"),
			text("ip_address"),
			text("user_agent"),
			boolean("success"),
			createdAt(),
		},
		constraints: []string{
			"FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE",
		},
	},
}

// createSQL renders the CREATE TABLE IF NOT EXISTS statement for one
// table in the given dialect.
func (t table) createSQL(typ Type) string {
	parts := make([]string, 0, len(t.columns)+len(t.constraints))
	for _, c := range t.columns {
		parts = append(parts, c.decl(typ))
	}
	parts = append(parts, t.constraints...)
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n\t%s\n)", t.name, strings.Join(parts, ",\n\t"))
}

// EnsureSchema brings a fresh or pre-existing database up to the
// canonical schema. It is idempotent and additive-only: no column is
// ever dropped or renamed here. A failing table is logged and skipped
// so the remaining tables still come up.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, t := range tables {
		if _, err := s.Run(ctx, t.createSQL(s.Type())); err != nil {
			s.logger.Printf("Warning: failed to create table %s: %v", t.name, err)
		}
	}
	return s.ensureUpgrades(ctx)
}

// ensureUpgrades applies the additive column upgrades that older
// deployments predate. Inventory grew category/quantity/supplier/expiry
// after the initial schema shipped.
func (s *Store) ensureUpgrades(ctx context.Context) error {
	upgrades := []struct {
		table, column, typ, def string
	}{
		{"inventory", "category", "TEXT", ""},
		{"inventory", "quantity", "INTEGER", "1"},
		{"inventory", "supplier", "TEXT", ""},
		{"inventory", "expiry_date", "TEXT", ""},
	}
	for _, u := range upgrades {
		if err := s.EnsureColumn(ctx, u.table, u.column, u.typ, u.def); err != nil {
			s.logger.Printf("Warning: failed to ensure column %s.%s: %v", u.table, u.column, err)
		}
	}
	return nil
}

// EnsureColumn adds a column to an existing table if it is missing.
// Safe to call on every startup. typ uses SQLite spellings; DATETIME is
// translated for PostgreSQL.
func (s *Store) EnsureColumn(ctx context.Context, tableName, columnName, typ, defaultExpr string) error {
	existing, err := s.TableColumns(ctx, tableName)
	if err != nil {
		return fmt.Errorf("failed to introspect %s: %w", tableName, err)
	}
	for _, c := range existing {
		if strings.EqualFold(c, columnName) {
			return nil
		}
	}

	if s.Type() == TypePostgres && strings.EqualFold(typ, "DATETIME") {
		typ = "TIMESTAMP"
	}
	stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s %s", tableName, columnName, typ)
	if defaultExpr != "" {
		stmt += " DEFAULT " + defaultExpr
	}
	if _, err := s.Run(ctx, stmt); err != nil {
		return fmt.Errorf("failed to add column %s.%s: %w", tableName, columnName, err)
	}
	return nil
}

// TableColumns returns the column names of a table via the engine's
// describe-table facility.
func (s *Store) TableColumns(ctx context.Context, tableName string) ([]string, error) {
	var rows []Row
	var err error
	switch s.Type() {
	case TypePostgres:
		rows, err = s.All(ctx, "SELECT column_name AS name FROM information_schema.columns WHERE table_name = ?", tableName)
	default:
		rows, err = s.All(ctx, fmt.Sprintf("PRAGMA table_info(%s)", tableName))
	}
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(rows))
	for _, r := range rows {
		names = append(names, r.String("name"))
	}
	return names, nil
}

// TableNames returns the canonical entity table names in schema order.
func TableNames() []string {
	names := make([]string, len(tables))
	for i, t := range tables {
		names[i] = t.name
	}
	return names
}
