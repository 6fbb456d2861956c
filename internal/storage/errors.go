// ABOUTME: Common storage errors
// ABOUTME: Separates normal not-found outcomes from persistence medium failures

package storage

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// ErrCorrupt is wrapped when the persisted slot content cannot be decoded.
var ErrCorrupt = errors.New("corrupted slot content")

// ErrIDExhausted is returned when the ID generator keeps colliding with existing IDs.
var ErrIDExhausted = errors.New("could not generate a unique record id")

// StorageError reports a failure of the persistence medium. It is never retried.
type StorageError struct {
	Op   string
	Slot string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %q: %v", e.Op, e.Slot, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

// IsStorageFailure reports whether err is (or wraps) a StorageError.
func IsStorageFailure(err error) bool {
	var se *StorageError
	return errors.As(err, &se)
}
