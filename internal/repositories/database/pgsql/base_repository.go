package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/retailsuite/ledger-engine/internal/apperrors"
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
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return apperrors.NewAppError(500, "failed to rollback transaction", err)
	}
	return nil
}

// nextNumber allocates the next value of a year-scoped sequence inside the
// given transaction and formats it as "<prefix>-<year>-<zero-padded value>",
// e.g. "JE-2026-000042". The upsert serializes concurrent allocators on the
// sequence row, so numbers are monotonic per scope and year.
func nextNumber(ctx context.Context, tx pgx.Tx, scope string, prefix string, year int) (string, error) {
	query := `
		INSERT INTO ledger_sequences (scope, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (scope, year)
		DO UPDATE SET last_value = ledger_sequences.last_value + 1
		RETURNING last_value;
	`
	var value int64
	if err := tx.QueryRow(ctx, query, scope, year).Scan(&value); err != nil {
		return "", apperrors.NewAppError(500, "failed to allocate "+scope+" number", err)
	}
	return fmt.Sprintf("%s-%d-%06d", prefix, year, value), nil
}
