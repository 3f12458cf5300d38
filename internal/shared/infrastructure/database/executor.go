package database

import (
	"context"
	"database/sql"
)

// Row is satisfied by pgx.Row and *sql.Row.
type Row interface {
	Scan(dest ...any) error
}

// Rows is the common subset of pgx.Rows and *sql.Rows.
type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

// Result reports the effect of an Exec.
type Result interface {
	RowsAffected() (int64, error)
}

// Executor runs queries written with '?' placeholders against either backend.
type Executor interface {
	Exec(ctx context.Context, query string, args ...any) (Result, error)
	QueryRow(ctx context.Context, query string, args ...any) Row
	Query(ctx context.Context, query string, args ...any) (Rows, error)
}

// Transaction is an Executor that can be finished.
type Transaction interface {
	Executor
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// Connection is a pooled handle to one backend.
type Connection interface {
	Executor
	BeginTx(ctx context.Context) (Transaction, error)
	Ping(ctx context.Context) error
	Close() error
	Driver() Driver
}

// SQLExecutor adapts anything with the database/sql query methods, such as
// *sql.DB or *sql.Tx.
type SQLExecutor struct {
	Querier interface {
		ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
		QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
		QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	}
	Dialect Driver
}

func (e SQLExecutor) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	return e.Querier.ExecContext(ctx, Rebind(e.Dialect, query), args...)
}

func (e SQLExecutor) QueryRow(ctx context.Context, query string, args ...any) Row {
	return e.Querier.QueryRowContext(ctx, Rebind(e.Dialect, query), args...)
}

func (e SQLExecutor) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := e.Querier.QueryContext(ctx, Rebind(e.Dialect, query), args...)
	if err != nil {
		return nil, err
	}
	return rows, nil
}
