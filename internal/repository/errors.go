package repository

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/solnguyen93/flightcast/internal/domain"
)

// uniqueViolation reports whether err is a unique-constraint violation and
// on which constraint, so callers can fold it into the right domain error.
func uniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return pgErr.ConstraintName, true
	}
	return "", false
}

// persistence wraps a driver failure as a generic persistence error; the
// underlying detail is kept for logging but never shown to the end user.
func persistence(err error) error {
	return errors.Join(domain.ErrPersistence, err)
}
