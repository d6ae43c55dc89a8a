package postgres

import (
	"errors"

	"ats-backend/pkg/apperror"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const uniqueViolation = "23505"

// translateError maps driver-level failures onto generic domain errors:
// unique-constraint violations become conflicts and missing rows become
// not-found. Everything else propagates unchanged.
func translateError(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return apperror.Duplicate("resource already exists")
	}

	if errors.Is(err, pgx.ErrNoRows) {
		return apperror.NotFound("resource not found")
	}

	return err
}
