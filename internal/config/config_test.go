package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	// Run from an empty directory so no stray voltdesk.yaml is found.
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Backend != "sqlite" {
		t.Errorf("backend = %q, want sqlite", cfg.Backend)
	}
	if cfg.SQLitePath != "voltdesk.db" {
		t.Errorf("sqlite_path = %q", cfg.SQLitePath)
	}
	if cfg.BcryptCost != 10 {
		t.Errorf("bcrypt_cost = %d", cfg.BcryptCost)
	}
	if !cfg.SeedDemo {
		t.Error("seed_demo should default to true")
	}
	if cfg.DashboardPort != 8090 {
		t.Errorf("dashboard_port = %d", cfg.DashboardPort)
	}
	if cfg.StatsInterval != 30*time.Second {
		t.Errorf("stats_interval = %v", cfg.StatsInterval)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "voltdesk.yaml")
	content := `backend: postgresql
postgres_dsn: postgres://vd:vd@localhost:5432/voltdesk
dashboard_port: 9000
seed_demo: false
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.Backend != "postgresql" {
		t.Errorf("backend = %q", cfg.Backend)
	}
	if cfg.PostgresDSN != "postgres://vd:vd@localhost:5432/voltdesk" {
		t.Errorf("postgres_dsn = %q", cfg.PostgresDSN)
	}
	if cfg.DashboardPort != 9000 {
		t.Errorf("dashboard_port = %d", cfg.DashboardPort)
	}
	if cfg.SeedDemo {
		t.Error("seed_demo should be false")
	}
	// Untouched keys keep their defaults.
	if cfg.BcryptCost != 10 {
		t.Errorf("bcrypt_cost = %d", cfg.BcryptCost)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Load() accepted a missing explicit config file")
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("VD_BACKEND", "postgresql")
	t.Setenv("VD_POSTGRES_DSN", "postgres://localhost/vd")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.Backend != "postgresql" {
		t.Errorf("backend = %q, want env override", cfg.Backend)
	}
	if cfg.PostgresDSN != "postgres://localhost/vd" {
		t.Errorf("postgres_dsn = %q", cfg.PostgresDSN)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{
			name: "sqlite defaults",
			cfg:  Config{Backend: "sqlite", SQLitePath: "x.db", BcryptCost: 10},
		},
		{
			name: "empty backend falls back to sqlite",
			cfg:  Config{SQLitePath: "x.db", BcryptCost: 10},
		},
		{
			name:    "sqlite without path",
			cfg:     Config{Backend: "sqlite", BcryptCost: 10},
			wantErr: true,
		},
		{
			name: "postgresql with dsn",
			cfg:  Config{Backend: "postgresql", PostgresDSN: "postgres://x", BcryptCost: 10},
		},
		{
			name:    "postgresql without dsn",
			cfg:     Config{Backend: "postgresql", BcryptCost: 10},
			wantErr: true,
		},
		{
			name:    "unknown backend",
			cfg:     Config{Backend: "mongodb", BcryptCost: 10},
			wantErr: true,
		},
		{
			name:    "bcrypt cost too low",
			cfg:     Config{Backend: "sqlite", SQLitePath: "x.db", BcryptCost: 3},
			wantErr: true,
		},
		{
			name:    "bcrypt cost too high",
			cfg:     Config{Backend: "sqlite", SQLitePath: "x.db", BcryptCost: 32},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestStoreConfig(t *testing.T) {
	cfg := Config{Backend: "sqlite", SQLitePath: "a.db", PostgresDSN: "dsn"}
	sc := cfg.StoreConfig()
	if sc.Backend != "sqlite" || sc.Path != "a.db" || sc.DSN != "dsn" {
		t.Errorf("StoreConfig() = %+v", sc)
	}
}
