package repository

import (
	"errors"
	"strings"
)

// Common repository errors. ErrNotFound deliberately covers both a missing
// row and a row the caller is not allowed to touch, so handlers cannot leak
// which of the two it was.
var (
	ErrNotFound       = errors.New("record not found")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrInvalidInput   = errors.New("invalid input")
)

// isDuplicateKeyError checks if the error is a duplicate key violation,
// covering both the postgres driver used in production and the sqlite
// driver the tests run on
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "duplicate key") ||
		strings.Contains(errStr, "UNIQUE constraint") ||
		strings.Contains(errStr, "23505") // PostgreSQL unique violation code
}
