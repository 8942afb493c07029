package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/villageveggies/backend/internal/apperr"
)

// Postgres SQLSTATE codes we translate.
const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
)

// dbErr classifies a database error. Anything unrecognised is a
// persistence failure carrying op as context.
func dbErr(op string, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return apperr.Duplicate("email already registered", err)
		case pgForeignKeyViolation:
			return &apperr.Error{Kind: apperr.NotFound, Message: "account not found", Err: err}
		case pgCheckViolation:
			return &apperr.Error{Kind: apperr.Validation, Message: "value rejected by database", Err: err}
		}
	}
	return apperr.Internal(op, err)
}
