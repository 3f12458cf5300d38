package database

import "context"

type txKey struct{}

type txInfo struct {
	tx    Transaction
	owned bool
}

// WithTx stores a transaction in the context. owned marks the unit of work
// that started it and is therefore responsible for finishing it.
func WithTx(ctx context.Context, tx Transaction, owned bool) context.Context {
	return context.WithValue(ctx, txKey{}, txInfo{tx: tx, owned: owned})
}

// TxFromContext returns the transaction in ctx, or nil.
func TxFromContext(ctx context.Context) Transaction {
	info, ok := ctx.Value(txKey{}).(txInfo)
	if !ok {
		return nil
	}
	return info.tx
}

// ExecutorFromContext prefers the transaction in ctx over the pool so
// repositories join whatever unit of work is running.
func ExecutorFromContext(ctx context.Context, conn Connection) Executor {
	if tx := TxFromContext(ctx); tx != nil {
		return tx
	}
	return conn
}

// RunInTx runs fn on the transaction in ctx, or on a new one that is
// committed when fn succeeds.
func RunInTx(ctx context.Context, conn Connection, fn func(exec Executor) error) error {
	if tx := TxFromContext(ctx); tx != nil {
		return fn(tx)
	}

	tx, err := conn.BeginTx(ctx)
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	return tx.Commit(ctx)
}
