package store

import (
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"

	"census/pkg/platform/sentinel"
)

// PostgreSQL error codes mapped to sentinel.ErrConflict.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// translate marks constraint violations with sentinel.ErrConflict so the
// service can report them as malformed data. Other errors pass through.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return err
	}
	switch pgErr.Code {
	case pgUniqueViolation, pgForeignKeyViolation, pgCheckViolation, pgNotNullViolation:
		return fmt.Errorf("%w: %s: %w", sentinel.ErrConflict, pgErr.ConstraintName, err)
	default:
		return err
	}
}
