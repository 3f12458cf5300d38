// Package sqlite provides the embedded SQLite backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
)

func init() {
	database.RegisterDriver(database.DriverSQLite, NewConnection)
}

// Connection implements database.Connection over database/sql.
type Connection struct {
	database.SQLExecutor
	db *sql.DB
}

// NewConnection opens the SQLite database at cfg.URL, or the default path
// when it is empty. ":memory:" opens a private in-memory database.
func NewConnection(ctx context.Context, cfg database.Config) (database.Connection, error) {
	path := database.SQLitePath(cfg.URL)
	if path == "" {
		path = database.DefaultSQLitePath()
	}

	pragmas := []string{"foreign_keys(1)", "busy_timeout(5000)"}
	if path != ":memory:" {
		if err := database.EnsureDirectory(path); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
		pragmas = append(pragmas, "journal_mode(WAL)", "synchronous(NORMAL)")
	}

	db, err := sql.Open("sqlite", dsn(path, pragmas))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	// One connection: SQLite has a single writer, and an in-memory
	// database only exists on the connection that created it.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite database: %w", err)
	}

	return &Connection{
		SQLExecutor: database.SQLExecutor{Querier: db, Dialect: database.DriverSQLite},
		db:          db,
	}, nil
}

func dsn(path string, pragmas []string) string {
	var b strings.Builder
	b.WriteString(path)
	if strings.Contains(path, "?") {
		b.WriteString("&")
	} else {
		b.WriteString("?")
	}
	b.WriteString("_time_format=sqlite")
	for _, p := range pragmas {
		b.WriteString("&_pragma=")
		b.WriteString(p)
	}
	return b.String()
}

// DB exposes the pool for migrations and tests.
func (c *Connection) DB() *sql.DB { return c.db }

func (c *Connection) Driver() database.Driver { return database.DriverSQLite }

func (c *Connection) Ping(ctx context.Context) error { return c.db.PingContext(ctx) }

func (c *Connection) Close() error { return c.db.Close() }

func (c *Connection) BeginTx(ctx context.Context) (database.Transaction, error) {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Transaction{
		SQLExecutor: database.SQLExecutor{Querier: tx, Dialect: database.DriverSQLite},
		tx:          tx,
	}, nil
}

// Transaction implements database.Transaction over *sql.Tx.
type Transaction struct {
	database.SQLExecutor
	tx *sql.Tx
}

func (t *Transaction) Commit(ctx context.Context) error { return t.tx.Commit() }

func (t *Transaction) Rollback(ctx context.Context) error { return t.tx.Rollback() }
