package database

import (
	"context"
	"fmt"
)

// LockKey serialises writers that share key for the rest of the current
// transaction. On Postgres this takes a transaction-scoped advisory lock.
// SQLite runs with a single connection, so an open transaction already
// excludes every other writer and no statement is needed.
func LockKey(ctx context.Context, exec Executor, driver Driver, key string) error {
	if driver != DriverPostgres {
		return nil
	}
	if _, err := exec.Exec(ctx, "SELECT pg_advisory_xact_lock(hashtext(?))", key); err != nil {
		return fmt.Errorf("acquire lock %q: %w", key, err)
	}
	return nil
}
