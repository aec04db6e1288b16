// Package pgerr classifies PostgreSQL driver errors.
package pgerr

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

const (
	uniqueViolation      = "23505"
	foreignKeyViolation  = "23503"
	checkViolation       = "23514"
	serializationFailure = "40001"
	deadlockDetected     = "40P01"
)

func code(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

func IsUniqueViolation(err error) bool { return code(err) == uniqueViolation }
func IsForeignKeyViolation(err error) bool { return code(err) == foreignKeyViolation }
func IsCheckViolation(err error) bool { return code(err) == checkViolation }

// IsRetryable reports serialization failures and deadlocks, after which the
// whole transaction may be retried.
func IsRetryable(err error) bool {
	c := code(err)
	return c == serializationFailure || c == deadlockDetected
}
