package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/crewdesk/crewdesk/internal/application/scheduler"
	"github.com/crewdesk/crewdesk/internal/application/task"
	"github.com/crewdesk/crewdesk/internal/notification"
)

// dbtx is the subset of pgx operations shared by *pgxpool.Pool and
// pgx.Tx. Repository methods run against it, so the same code serves
// both pooled and in-transaction calls.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Store provides the PostgreSQL implementation of all repository
// interfaces. A Store built by NewStore runs against the pool; the
// Atomic helpers hand callbacks a Store bound to a transaction.
type Store struct {
	pool *pgxpool.Pool
	db   dbtx
}

// Compile-time verification that Store implements all repository interfaces.
var (
	_ task.Repository         = (*Store)(nil)
	_ scheduler.Repository    = (*Store)(nil)
	_ notification.Repository = (*Store)(nil)
)

// NewStore creates a new PostgreSQL store with the given connection pool.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{
		pool: pool,
		db:   pool,
	}
}

// Pool returns the underlying connection pool.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

// Close closes the database connection pool.
func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// finalizeTx handles transaction cleanup for normal error/success
// cases. Rolls back on error, commits on success. Panics are handled
// in the defer blocks before finalizeTx is called.
func finalizeTx(ctx context.Context, tx pgx.Tx, err *error) {
	if *err != nil {
		slog.ErrorContext(ctx, "transaction failed, rolling back",
			"error", *err)
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			slog.ErrorContext(ctx, "rollback failed",
				"original_error", *err,
				"rollback_error", rbErr)
			*err = fmt.Errorf("transaction failed: %w (rollback error: %v)", *err, rbErr)
		}
	} else {
		*err = tx.Commit(ctx)
		if *err != nil {
			slog.ErrorContext(ctx, "transaction commit failed",
				"error", *err)
		}
	}
}

// executeInTransaction executes a callback within a transaction with
// logging and panic recovery.
func (s *Store) executeInTransaction(ctx context.Context, operationName string, fn func(txStore *Store) error) (err error) {
	start := time.Now().UTC()

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		slog.ErrorContext(ctx, "failed to begin transaction",
			"operation", operationName,
			"error", err)
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			slog.ErrorContext(ctx, "transaction panic, rolling back",
				"operation", operationName,
				"panic", p)
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				slog.ErrorContext(ctx, "rollback after panic failed",
					"operation", operationName,
					"panic", p,
					"rollback_error", rbErr)
			}
			panic(p)
		}

		finalizeTx(ctx, tx, &err)
		if err == nil {
			slog.DebugContext(ctx, "transaction completed",
				"operation", operationName,
				"duration_ms", time.Since(start).Milliseconds())
		}
	}()

	txStore := &Store{
		pool: s.pool,
		db:   tx,
	}

	err = fn(txStore)
	return
}

// Atomic executes a callback within a database transaction. All
// operations inside the callback succeed together or fail together.
func (s *Store) Atomic(ctx context.Context, fn func(repo task.Repository) error) error {
	return s.executeInTransaction(ctx, "atomic", func(txStore *Store) error {
		return fn(txStore)
	})
}

// AtomicRecurring executes a scheduler callback within a database
// transaction.
func (s *Store) AtomicRecurring(ctx context.Context, fn func(repo scheduler.Repository) error) error {
	return s.executeInTransaction(ctx, "atomic_recurring", func(txStore *Store) error {
		return fn(txStore)
	})
}
