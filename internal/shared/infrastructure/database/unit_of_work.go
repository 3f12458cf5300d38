package database

import (
	"context"
	"errors"
)

var errNoTransaction = errors.New("no transaction in context")

// UnitOfWork implements application.UnitOfWork on top of a Connection.
// Nested Begin calls join the outer transaction; only the outermost unit
// commits or rolls back.
type UnitOfWork struct {
	conn Connection
}

// NewUnitOfWork creates a UnitOfWork for conn.
func NewUnitOfWork(conn Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

func (u *UnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	if info, ok := ctx.Value(txKey{}).(txInfo); ok {
		return WithTx(ctx, info.tx, false), nil
	}

	tx, err := u.conn.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	return WithTx(ctx, tx, true), nil
}

func (u *UnitOfWork) Commit(ctx context.Context) error {
	info, ok := ctx.Value(txKey{}).(txInfo)
	if !ok {
		return errNoTransaction
	}
	if !info.owned {
		return nil
	}
	return info.tx.Commit(ctx)
}

func (u *UnitOfWork) Rollback(ctx context.Context) error {
	info, ok := ctx.Value(txKey{}).(txInfo)
	if !ok {
		return errNoTransaction
	}
	if !info.owned {
		return nil
	}
	return info.tx.Rollback(ctx)
}
