package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	dbgen "github.com/noah-isme/backend-turismo/internal/db/gen"
)

// Beginner starts transactions. Satisfied by *pgxpool.Pool and pgxmock pools.
type Beginner interface {
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

// Transactor runs units of work inside a single database transaction.
type Transactor struct {
	Pool       Beginner
	Options    pgx.TxOptions
	MaxRetries int
	Backoff    time.Duration
	Logger     zerolog.Logger
	// OnRetry is invoked before a unit of work is rerun.
	OnRetry func(attempt int, err error)
}

var errNoPool = errors.New("db: transactor pool not configured")

// InTx executes fn in a transaction and commits when it returns nil. Units that
// fail with a serialization failure or deadlock are rerun up to MaxRetries times,
// so fn must not have side effects outside the transaction.
func (t *Transactor) InTx(ctx context.Context, fn func(q *dbgen.Queries) error) error {
	if t == nil || t.Pool == nil {
		return errNoPool
	}
	attempts := t.MaxRetries + 1
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = t.run(ctx, fn)
		if err == nil || !IsRetryable(err) || attempt == attempts {
			return err
		}
		t.Logger.Warn().Err(err).Int("attempt", attempt).Msg("retrying transaction")
		if t.OnRetry != nil {
			t.OnRetry(attempt, err)
		}
		if waitErr := t.wait(ctx, attempt); waitErr != nil {
			return err
		}
	}
	return err
}

func (t *Transactor) run(ctx context.Context, fn func(q *dbgen.Queries) error) error {
	tx, err := t.Pool.BeginTx(ctx, t.Options)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(dbgen.New(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func (t *Transactor) wait(ctx context.Context, attempt int) error {
	delay := t.Backoff * time.Duration(attempt)
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
