package migrations

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database/sqlite"
)

func TestLoad(t *testing.T) {
	for _, driver := range []database.Driver{database.DriverSQLite, database.DriverPostgres} {
		t.Run(driver.String(), func(t *testing.T) {
			migrations, err := Load(driver)
			require.NoError(t, err)
			require.NotEmpty(t, migrations)
			assert.Equal(t, "000001_initial_schema", migrations[0].Version)
			assert.Contains(t, migrations[0].SQL, "CREATE TABLE IF NOT EXISTS items")
		})
	}
}

func TestRun_SQLite(t *testing.T) {
	ctx := context.Background()
	conn, err := sqlite.NewConnection(ctx, database.Config{URL: ":memory:"})
	require.NoError(t, err)
	defer conn.Close()

	ran, err := Run(ctx, conn)
	require.NoError(t, err)
	assert.Equal(t, []string{"000001_initial_schema"}, ran)

	// second run is a no-op
	ran, err = Run(ctx, conn)
	require.NoError(t, err)
	assert.Empty(t, ran)

	for _, table := range []string{"users", "items", "categories", "item_categories", "score_records", "game_sessions", "sessions", "outbox"} {
		var name string
		err := conn.QueryRow(ctx, `SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, table).Scan(&name)
		require.NoError(t, err, table)
	}
}

func TestStatements(t *testing.T) {
	got := statements("CREATE TABLE a (x INT);\n\nCREATE INDEX i ON a(x);\n")
	assert.Equal(t, []string{"CREATE TABLE a (x INT)", "CREATE INDEX i ON a(x)"}, got)
}
