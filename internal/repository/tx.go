package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/Domenick1991/tripbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Transactor runs fn inside one database transaction. Repositories called
// with the ctx handed to fn join that transaction.
type Transactor interface {
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type PGTransactor struct {
	db *pgxpool.Pool
}

func NewTransactor(db *pgxpool.Pool) Transactor {
	return &PGTransactor{db: db}
}

func (t *PGTransactor) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return withTx(ctx, t.db, fn)
}

type txKey struct{}

func withTx(ctx context.Context, db *pgxpool.Pool, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}

	tx, err := db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: begin: %w", domain.ErrTransaction, err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return asTransactionError(err)
	}
	if err := tx.Commit(ctx); err != nil {
		return asTransactionError(translatePgError(err))
	}
	return nil
}

func txFromContext(ctx context.Context) pgx.Tx {
	tx, _ := ctx.Value(txKey{}).(pgx.Tx)
	return tx
}

// asTransactionError keeps business errors intact and classifies everything
// else as a transaction failure.
func asTransactionError(err error) error {
	if domain.IsBusinessError(err) || errors.Is(err, domain.ErrTransaction) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrTransaction, err)
}

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgExclusionViolation  = "23P01"

	seatsConstraint = "flights_seats_bounded"
)

func translatePgError(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch {
	case pgErr.Code == pgExclusionViolation:
		return fmt.Errorf("%w: overlapping booking exists", domain.ErrConflict)
	case pgErr.Code == pgCheckViolation && pgErr.ConstraintName == seatsConstraint:
		return fmt.Errorf("%w: seat limit reached", domain.ErrCapacity)
	case pgErr.Code == pgForeignKeyViolation:
		return fmt.Errorf("%w: referenced record missing (%s)", domain.ErrNotFound, pgErr.ConstraintName)
	}
	return err
}

// pgStore routes statements to the transaction in ctx when there is one.
type pgStore struct {
	db *pgxpool.Pool
}

func (s pgStore) exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Exec(ctx, sql, args...)
	}
	return s.db.Exec(ctx, sql, args...)
}

func (s pgStore) queryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	if tx := txFromContext(ctx); tx != nil {
		return tx.QueryRow(ctx, sql, args...)
	}
	return s.db.QueryRow(ctx, sql, args...)
}

func (s pgStore) query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	if tx := txFromContext(ctx); tx != nil {
		return tx.Query(ctx, sql, args...)
	}
	return s.db.Query(ctx, sql, args...)
}
