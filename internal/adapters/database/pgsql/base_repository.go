package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/ledger_engine/internal/apperrors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// dbtx is what the repositories need from either the pool or an open transaction.
type dbtx interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults
}

var (
	_ dbtx = (*pgxpool.Pool)(nil)
	_ dbtx = (pgx.Tx)(nil)
)

// BaseRepository provides common functionality for all repositories
type BaseRepository struct {
	Pool *pgxpool.Pool
}

// Begin starts a new database transaction
func (r *BaseRepository) Begin(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.Pool.Begin(ctx)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to begin transaction", err)
	}
	return tx, nil
}

// Commit commits a transaction
func (r *BaseRepository) Commit(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Commit(ctx); err != nil {
		return apperrors.NewAppError(500, "failed to commit transaction", err)
	}
	return nil
}

// Rollback rolls back a transaction
func (r *BaseRepository) Rollback(ctx context.Context, tx pgx.Tx) error {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

const uniqueViolation = "23505"

// wrapWriteError maps unique violations to ErrDuplicate.
func wrapWriteError(err error, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s (%s)", apperrors.ErrDuplicate, msg, pgErr.ConstraintName)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// wrapReadError maps pgx.ErrNoRows to a NotFoundError.
func wrapReadError(err error, resource, id string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFoundError(resource, id)
	}
	return fmt.Errorf("failed to find %s %s: %w", resource, id, err)
}
