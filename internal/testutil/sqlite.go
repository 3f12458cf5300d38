// Package testutil holds helpers shared by persistence tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database/sqlite"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/migrations"
)

// NewSQLite opens an in-memory database with the schema applied. It is
// closed when the test ends.
func NewSQLite(t *testing.T) database.Connection {
	t.Helper()
	return openSQLite(t, ":memory:")
}

// NewSQLiteFile opens a WAL-mode database file in a temporary directory,
// the same setup a deployed instance runs on.
func NewSQLiteFile(t *testing.T) database.Connection {
	t.Helper()
	return openSQLite(t, filepath.Join(t.TempDir(), "ordo.db"))
}

func openSQLite(t *testing.T, url string) database.Connection {
	t.Helper()

	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{URL: url})
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	_, err = migrations.Run(ctx, conn)
	require.NoError(t, err)
	return conn
}

// InsertUser creates a bare user row so foreign keys are satisfied.
func InsertUser(t *testing.T, conn database.Connection, username string) uuid.UUID {
	t.Helper()

	id := uuid.New()
	now := time.Now().UTC()
	_, err := conn.Exec(context.Background(),
		`INSERT INTO users (id, username, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		id, username, "x", now, now)
	require.NoError(t, err)
	return id
}
