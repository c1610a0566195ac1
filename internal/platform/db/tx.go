package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type txContextKey struct{}

// TxFromContext returns the transaction carried by ctx, or nil when the
// operation runs outside a transaction. Repositories check this before falling
// back to the pool, so a service call composed inside RunInTx shares one
// transaction without any repository-level plumbing.
func TxFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txContextKey{}).(pgx.Tx)
	return tx
}

// WithTx begins a transaction on the pool and returns a derived context
// carrying it. The caller owns the commit/rollback.
func WithTx(ctx context.Context, pool *pgxpool.Pool) (context.Context, pgx.Tx, error) {
	tx, err := pool.Begin(ctx)
	if err != nil {
		return ctx, nil, fmt.Errorf("begin transaction: %w", err)
	}
	return context.WithValue(ctx, txContextKey{}, tx), tx, nil
}

// TxRunner is the unit-of-work boundary used by workflows that must persist
// across several repositories atomically. The pool-backed implementation is
// PoolRunner; tests substitute a pass-through fake.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// PoolRunner runs the given function inside a single database transaction.
type PoolRunner struct {
	Pool *pgxpool.Pool
}

func NewPoolRunner(pool *pgxpool.Pool) *PoolRunner {
	return &PoolRunner{Pool: pool}
}

// RunInTx executes fn with a transaction-carrying context. The transaction is
// committed when fn returns nil and rolled back otherwise; a rollback failure
// never masks fn's error.
func (r *PoolRunner) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	txCtx, tx, err := WithTx(ctx, r.Pool)
	if err != nil {
		return err
	}

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
