package store

import (
	"errors"

	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound reports a lookup that matched no row.
	ErrNotFound = errors.New("survey not found")
	// ErrDuplicateEmail reports a violated unique constraint on email.
	ErrDuplicateEmail = errors.New("email already exists")
)

func isUniqueViolation(err error) bool {
	var serr sqlite3.Error
	return errors.As(err, &serr) && serr.ExtendedCode == sqlite3.ErrConstraintUnique
}
