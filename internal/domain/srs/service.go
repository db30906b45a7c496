package srs

import (
	"errors"
	"time"

	"github.com/studyloop/studyloop-api/internal/domain"
)

// Common errors
var (
	ErrNilCard     = errors.New("review card cannot be nil")
	ErrInvalidDays = errors.New("postpone days must be at least 1")
)

// Service defines the interface for spaced repetition scheduling operations.
type Service interface {
	// NextState computes the card's next scheduling state from a review
	// quality rating in [0,5]. Returns domain.ErrInvalidQuality for ratings
	// outside that range. The input card is never modified.
	NextState(card *domain.ReviewCard, quality int, now time.Time) (*domain.ReviewCard, error)

	// PostponeReview pushes the card's due date forward by a number of days
	// without touching its scheduling state.
	PostponeReview(card *domain.ReviewCard, days int, now time.Time) (*domain.ReviewCard, error)
}

// defaultService is the standard implementation of the Service interface.
type defaultService struct {
	params *Params
}

// NewDefaultService creates a new scheduling service with default parameters.
func NewDefaultService() Service {
	return &defaultService{
		params: NewDefaultParams(),
	}
}

// NewServiceWithParams creates a new scheduling service with custom parameters.
func NewServiceWithParams(params *Params) Service {
	return &defaultService{
		params: params,
	}
}

// NextState implements the Service interface. It follows the immutable
// update pattern: a new card is returned and the caller is responsible for
// persisting it.
func (s *defaultService) NextState(
	card *domain.ReviewCard,
	quality int,
	now time.Time,
) (*domain.ReviewCard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if quality < 0 || quality > 5 {
		return nil, domain.ErrInvalidQuality
	}

	state := calculateNextState(
		quality,
		card.IntervalDays,
		card.Repetitions,
		card.EaseFactor,
		now,
		s.params,
	)

	next := *card
	next.IntervalDays = state.IntervalDays
	next.Repetitions = state.Repetitions
	next.EaseFactor = state.EaseFactor
	next.DueAt = state.DueAt
	next.LastReviewedAt = now
	next.UpdatedAt = now

	return &next, nil
}

// PostponeReview implements the Service interface.
func (s *defaultService) PostponeReview(
	card *domain.ReviewCard,
	days int,
	now time.Time,
) (*domain.ReviewCard, error) {
	if card == nil {
		return nil, ErrNilCard
	}

	if days < 1 {
		return nil, ErrInvalidDays
	}

	next := *card
	next.DueAt = card.DueAt.AddDate(0, 0, days)
	next.UpdatedAt = now

	return &next, nil
}
