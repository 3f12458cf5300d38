package database

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config selects and tunes a backend.
type Config struct {
	// URL is a Postgres URL or a SQLite path; empty means the default
	// SQLite file.
	URL string
	// MaxConns caps the Postgres pool. Zero keeps the pgx default.
	MaxConns int
}

type opener func(ctx context.Context, cfg Config) (Connection, error)

var openers = map[Driver]opener{}

// RegisterDriver makes a backend available to Open. Backend packages call
// it from init, so importing them for side effects is enough.
func RegisterDriver(driver Driver, fn func(ctx context.Context, cfg Config) (Connection, error)) {
	openers[driver] = fn
}

// Open connects to the backend inferred from cfg.URL.
func Open(ctx context.Context, cfg Config) (Connection, error) {
	driver := DetectDriver(cfg.URL)
	open, ok := openers[driver]
	if !ok {
		return nil, fmt.Errorf("database driver %q is not registered", driver)
	}
	return open(ctx, cfg)
}

// DefaultSQLitePath is where the local database lives when no URL is set.
func DefaultSQLitePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".ordo", "ordo.db")
}

// EnsureDirectory creates the parent directory of path.
func EnsureDirectory(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
