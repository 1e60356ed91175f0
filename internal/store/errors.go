package store

import (
	"errors"

	"github.com/lib/pq"
)

// ErrNotFound is returned when a record does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert or update violates a unique
// constraint (duplicate email, duplicate category name).
var ErrConflict = errors.New("conflict")

// ErrInvalidRef is returned when an insert or update references a row
// that does not exist (unknown category or user id).
var ErrInvalidRef = errors.New("invalid reference")

const (
	pqUniqueViolation     = "23505"
	pqForeignKeyViolation = "23503"
)

// classify maps postgres constraint violations onto the store's
// sentinel errors so callers never inspect driver errors directly.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqUniqueViolation:
			return ErrConflict
		case pqForeignKeyViolation:
			return ErrInvalidRef
		}
	}
	return err
}
