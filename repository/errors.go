package repository

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"
)

var (
	// ErrNotFound is returned when a lookup matches no live row.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateEmail is returned when an email is already registered.
	ErrDuplicateEmail = errors.New("email already registered")
)

// Postgres error codes the repositories translate.
const (
	pqUniqueViolation   = "23505"
	pqInvalidTextFormat = "22P02"
)

// mapError turns driver-level "no such row" conditions into ErrNotFound. An
// identifier that is not a valid uuid can never match, so it is treated the
// same way.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pqInvalidTextFormat:
			return ErrNotFound
		case pqUniqueViolation:
			return ErrDuplicateEmail
		}
	}
	return err
}
