package repository

import (
	"errors"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
)

// Sentinel errors surfaced to the service layer. Handlers map them to
// HTTP statuses; everything else bubbles up as a 500.
var (
	// ErrNotFound means no row matched the query.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists means an insert hit a uniqueness constraint.
	ErrAlreadyExists = errors.New("already exists")
)

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation
}
