package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// Common validation errors for ReviewCard
var (
	ErrEmptyCardID       = errors.New("review card ID cannot be empty")
	ErrEmptyCardDeckID   = errors.New("review card deck ID cannot be empty")
	ErrEmptyCardFront    = errors.New("review card front content cannot be empty")
	ErrInvalidInterval   = errors.New("interval must be at least 1 day")
	ErrInvalidEaseFactor = errors.New("ease factor cannot fall below 1.3")
	ErrInvalidRepetition = errors.New("repetition count cannot be negative")
)

// MinEaseFactor is the floor applied to a card's ease factor. Cards never
// become harder than this, which keeps intervals from collapsing.
const MinEaseFactor = 1.3

// DefaultEaseFactor is assigned to freshly generated cards.
const DefaultEaseFactor = 2.5

// ReviewCard is a single flashcard together with its spaced repetition state.
// The scheduling fields (EaseFactor, IntervalDays, Repetitions, DueAt) are
// mutated only through the srs package on each review event.
type ReviewCard struct {
	ID             uuid.UUID `json:"id"`
	DeckID         uuid.UUID `json:"deck_id"`
	OwnerID        uuid.UUID `json:"owner_id"`
	FrontContent   string    `json:"front_content"`
	BackContent    string    `json:"back_content"`
	EaseFactor     float64   `json:"ease_factor"`   // Never below MinEaseFactor
	IntervalDays   int       `json:"interval_days"` // Always >= 1
	Repetitions    int       `json:"repetitions"`   // Consecutive successful recalls
	DueAt          time.Time `json:"due_at"`
	LastReviewedAt time.Time `json:"last_reviewed_at"` // Zero until the first review
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewReviewCard creates a card with default scheduling state. The card is due
// immediately so it enters the review queue on creation.
func NewReviewCard(ownerID, deckID uuid.UUID, front, back string) (*ReviewCard, error) {
	now := time.Now().UTC()
	card := &ReviewCard{
		ID:           uuid.New(),
		DeckID:       deckID,
		OwnerID:      ownerID,
		FrontContent: front,
		BackContent:  back,
		EaseFactor:   DefaultEaseFactor,
		IntervalDays: 1,
		Repetitions:  0,
		DueAt:        now,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the ReviewCard has valid data.
// Returns an error if any field fails validation.
func (c *ReviewCard) Validate() error {
	if c.ID == uuid.Nil {
		return ErrEmptyCardID
	}

	if c.DeckID == uuid.Nil {
		return ErrEmptyCardDeckID
	}

	if c.FrontContent == "" {
		return ErrEmptyCardFront
	}

	if c.IntervalDays < 1 {
		return ErrInvalidInterval
	}

	if c.EaseFactor < MinEaseFactor {
		return ErrInvalidEaseFactor
	}

	if c.Repetitions < 0 {
		return ErrInvalidRepetition
	}

	return nil
}

// IsDue reports whether the card should be reviewed at the given time.
func (c *ReviewCard) IsDue(now time.Time) bool {
	return !c.DueAt.After(now)
}
