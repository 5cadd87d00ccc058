package apperror

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
)

const pgUniqueViolation = "23505"

// IsUniqueViolation reports whether err is a postgres unique-constraint
// violation, returning the constraint name when available.
func IsUniqueViolation(err error) (string, bool) {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == pgUniqueViolation {
			return pgErr.ConstraintName, true
		}
		return "", false
	}

	// gorm may rewrap driver errors; fall back to the message shape.
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "duplicate key value") {
		return "", true
	}
	return "", false
}

// Conflict translates a unique violation into a 400 CONFLICT AppError.
func Conflict(message string, details any) *AppError {
	e := New(CodeConflict, message, 400)
	e.Details = details
	return e
}
