package store

import (
	"errors"
	"fmt"
)

// Common store errors used across all store implementations.
var (
	// ErrNotFound is returned when a requested entity does not exist in the
	// store. This is a generic version of the entity-specific not found
	// errors (e.g., ErrCardNotFound, ErrSessionNotFound).
	ErrNotFound = errors.New("entity not found")

	// ErrDuplicate is returned when an operation would create a duplicate
	// of a unique entity.
	ErrDuplicate = errors.New("entity already exists")

	// ErrInvalidEntity is returned when an entity fails validation before
	// being stored. Check the wrapped error for specific validation details.
	ErrInvalidEntity = errors.New("invalid entity")

	// ErrStorageUnavailable is returned when the external storage
	// collaborator cannot be reached or fails unexpectedly. Callers are
	// expected to retry; the store layer never retries on its own.
	ErrStorageUnavailable = errors.New("storage unavailable")

	// Entity-specific "not found" errors

	// ErrCardNotFound indicates that the requested review card does not exist.
	ErrCardNotFound = fmt.Errorf("%w: card", ErrNotFound)

	// ErrSessionNotFound indicates that the owner has no active workflow session.
	ErrSessionNotFound = fmt.Errorf("%w: session", ErrNotFound)

	// ErrSnapshotNotFound indicates that the owner has no persisted timer snapshot.
	ErrSnapshotNotFound = fmt.Errorf("%w: timer snapshot", ErrNotFound)
)

// IsNotFoundError checks if the error is any kind of "not found" error.
func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound)
}
