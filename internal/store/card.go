package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// CardStore defines the interface for review card persistence.
type CardStore interface {
	// GetByID retrieves a card by its unique ID.
	// Returns ErrCardNotFound if the card does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewCard, error)

	// Save upserts a card keyed by its ID. The scheduling state written last
	// wins; the store never merges concurrent writes.
	// Returns validation errors if the card data is invalid.
	Save(ctx context.Context, card *domain.ReviewCard) error

	// ListDue retrieves the owner's cards that are due at the given instant,
	// ordered by due date ascending then ID for stable paging. Returns an
	// empty slice when nothing is due.
	ListDue(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ReviewCard, error)
}
