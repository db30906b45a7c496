// Package review orchestrates flashcard review events: it loads a card,
// applies the spaced repetition algorithm to the submitted recall quality,
// and persists the updated schedule.
package review

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// ReviewGrade represents a user's graded recall of a flashcard.
type ReviewGrade struct {
	Quality int `json:"quality"` // Recall quality in [0,5]
}

// ReviewService provides methods for creating and reviewing flashcards
// using the spaced repetition scheduler.
type ReviewService interface {
	// CreateCard creates a new review card for the owner, due immediately.
	CreateCard(ctx context.Context, ownerID, deckID uuid.UUID, front, back string) (*domain.ReviewCard, error)

	// GetCard retrieves a card owned by the given owner.
	// Returns ErrCardNotFound if the card does not exist and ErrCardNotOwned
	// if it belongs to someone else.
	GetCard(ctx context.Context, ownerID, cardID uuid.UUID) (*domain.ReviewCard, error)

	// ListDueCards retrieves up to limit cards due for review, soonest first.
	ListDueCards(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ReviewCard, error)

	// SubmitReview applies the grade to the card's spaced repetition state
	// and persists the result. Returns ErrInvalidGrade for qualities outside
	// [0,5]; ownership errors match GetCard.
	SubmitReview(ctx context.Context, ownerID, cardID uuid.UUID, grade ReviewGrade) (*domain.ReviewCard, error)

	// PostponeCard pushes the card's due date forward by the given number of
	// days without touching its scheduling state. Returns srs.ErrInvalidDays
	// when days is below 1; ownership errors match GetCard.
	PostponeCard(ctx context.Context, ownerID, cardID uuid.UUID, days int) (*domain.ReviewCard, error)
}

// Common error types for ReviewService
var (
	// ErrCardNotFound indicates that the card does not exist.
	ErrCardNotFound = errors.New("card not found")

	// ErrCardNotOwned indicates that the requester does not own the card.
	ErrCardNotOwned = errors.New("unauthorized access: card not owned by user")

	// ErrInvalidGrade indicates a recall quality outside the valid range.
	ErrInvalidGrade = errors.New("invalid review grade")

	// ErrEmptyCard indicates a card create request with no front content.
	ErrEmptyCard = errors.New("card front content is required")
)

// ServiceError wraps errors from the review service with additional context,
// letting consumers differentiate failures with errors.As instead of string
// matching.
type ServiceError struct {
	// Operation is the operation that failed (e.g., "submit_review")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for ServiceError.
func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s operation failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("%s operation failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ServiceError) Unwrap() error {
	return e.Err
}
