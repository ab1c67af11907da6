package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/anungis437/nzila-eexports-sub001/internal/domain/valueobject"
)

// scannable is satisfied by both pgx.Row and pgx.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// mapFindErr translates driver-level not-found into the domain sentinel.
func mapFindErr(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return valueobject.ErrNotFound
	}
	return err
}

// isUniqueViolation reports whether err is a unique constraint breach, which
// conditional inserts treat as losing a race.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
