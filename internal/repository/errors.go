package repository

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no student matches a lookup.
var ErrNotFound = errors.New("student not found")

// DuplicateKeyError reports a uniqueness violation on student_id or email,
// translated from the active backend's native error so callers never branch
// on backend identity.
type DuplicateKeyError struct {
	Field string // "student_id" or "email"
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("student with this %s already exists", e.Field)
}

// IsDuplicateKey reports whether err is a uniqueness violation from either
// backend adapter.
func IsDuplicateKey(err error) bool {
	var dup *DuplicateKeyError
	return errors.As(err, &dup)
}
