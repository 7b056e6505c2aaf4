package store

import (
	"fmt"
	"log"
)

// normalizeType maps configuration spellings onto backend types.
// Absent or unknown-empty values default to the embedded engine so a
// bare checkout works with zero configuration.
func normalizeType(backend string) Type {
	switch backend {
	case "", "sqlite", "sqlite3":
		return TypeSQLite
	case "postgres", "postgresql", "pg":
		return TypePostgres
	default:
		return Type(backend)
	}
}

// Open selects exactly one backend from the configuration and returns
// the process-wide Store. The choice is final: there is no runtime
// switching after startup. A bad configuration is fatal: the portal
// refuses to serve traffic on a broken persistence layer.
func Open(cfg Config, logger *log.Logger) (*Store, error) {
	if logger == nil {
		logger = log.Default()
	}

	t := normalizeType(cfg.Backend)
	constructor := getConstructor(t)
	if constructor == nil {
		return nil, fmt.Errorf("unknown backend %q (registered: %v)", cfg.Backend, RegisteredTypes())
	}

	driver, err := constructor(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s backend: %w", t, err)
	}

	logger.Printf("Store opened (backend: %s)", t)
	return &Store{driver: driver, logger: logger}, nil
}
