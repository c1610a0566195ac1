package db

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel persistence errors. Callers distinguish "row absent" and
// "constraint violated" from plain query failures with errors.Is.
var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("conflict")
)

// Postgres error codes for constraint violations.
const (
	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
	pgCheckViolation      = "23514"
)

// Classify maps a driver error onto the sentinel taxonomy. Row absence becomes
// ErrNotFound, constraint violations become ErrConflict (with the constraint
// name preserved), and anything else is returned unchanged.
func Classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgForeignKeyViolation, pgUniqueViolation, pgCheckViolation:
			return fmt.Errorf("%w: %s", ErrConflict, pgErr.ConstraintName)
		}
	}
	return err
}

// NotFoundIfZero converts a zero rows-affected count on UPDATE/DELETE into
// ErrNotFound, so callers always learn when the target row was missing.
func NotFoundIfZero(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
