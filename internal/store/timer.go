package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// TimerStore defines the interface for timer snapshot persistence.
// At most one snapshot exists per owner; every save overwrites the previous
// snapshot (last write wins).
type TimerStore interface {
	// Get retrieves the owner's timer snapshot.
	// Returns ErrSnapshotNotFound if no snapshot is persisted.
	Get(ctx context.Context, ownerID uuid.UUID) (*domain.TimerSnapshot, error)

	// Save upserts the snapshot keyed by owner ID.
	// Returns validation errors if the snapshot data is invalid.
	Save(ctx context.Context, snapshot *domain.TimerSnapshot) error

	// Delete removes the owner's snapshot. Deleting a missing snapshot is
	// not an error; clearing is idempotent.
	Delete(ctx context.Context, ownerID uuid.UUID) error
}
