package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// SessionStore defines the interface for workflow session persistence.
// Each owner has at most one active session, enforced by upsert-on-owner
// semantics rather than application-level locking.
type SessionStore interface {
	// GetActive retrieves the owner's active session.
	// Returns ErrSessionNotFound if the owner has no active session.
	GetActive(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error)

	// Save upserts the session keyed by owner ID. Saving a session whose
	// status is no longer active releases the owner's active slot.
	// Returns validation errors if the session data is invalid.
	Save(ctx context.Context, session *domain.WorkflowSession) error

	// Delete removes the owner's session record entirely. Deleting a
	// missing session is not an error.
	Delete(ctx context.Context, ownerID uuid.UUID) error
}
