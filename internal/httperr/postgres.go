package httperr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgUniqueViolation     = "23505"
)

func pgCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsForeignKeyViolation(err error) bool {
	return pgCode(err) == pgForeignKeyViolation
}

func IsCheckViolation(err error) bool {
	return pgCode(err) == pgCheckViolation
}

func IsUniqueViolation(err error) bool {
	return pgCode(err) == pgUniqueViolation
}
