package services

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// Postgres error codes this service recognizes as degradable or
// translatable. Anything else from the store is fatal to the request.
const (
	pgUndefinedTable  = "42P01"
	pgUniqueViolation = "23505"
)

// isUndefinedTable reports whether err is Postgres undefined_table:
// the schema (or one of its relation tables) has not been provisioned.
func isUndefinedTable(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUndefinedTable
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
