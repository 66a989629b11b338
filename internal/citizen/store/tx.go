package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"census/internal/citizen/ports"
	dErrors "census/pkg/domain-errors"
	"census/pkg/platform/sentinel"
)

const defaultTxTimeout = 5 * time.Second

// PostgresTx runs units of work in PostgreSQL transactions.
type PostgresTx struct {
	db      *sql.DB
	timeout time.Duration
}

type PostgresTxOption func(*PostgresTx)

// WithTxTimeout bounds transactions whose context has no deadline.
func WithTxTimeout(d time.Duration) PostgresTxOption {
	return func(t *PostgresTx) {
		t.timeout = d
	}
}

func NewPostgresTx(db *sql.DB, opts ...PostgresTxOption) *PostgresTx {
	t := &PostgresTx{db: db, timeout: defaultTxTimeout}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RunInTx runs fn in a read committed transaction. Any error rolls back.
func (t *PostgresTx) RunInTx(ctx context.Context, fn func(store ports.Store) error) error {
	return t.run(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, fn)
}

// RunReadOnly runs fn in a repeatable read, read-only transaction, so every
// query of fn sees the same snapshot.
func (t *PostgresTx) RunReadOnly(ctx context.Context, fn func(store ports.Store) error) error {
	return t.run(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}, fn)
}

func (t *PostgresTx) run(ctx context.Context, opts *sql.TxOptions, fn func(store ports.Store) error) error {
	if err := ctx.Err(); err != nil {
		return dErrors.Wrap(err, dErrors.CodeTimeout, "transaction aborted: context cancelled")
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline && t.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, t.timeout)
		defer cancel()
	}

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", sentinel.ErrUnavailable, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if err := fn(NewPostgres(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return translate(fmt.Errorf("commit transaction: %w", err))
	}
	return nil
}
