package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/srs"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// Verify interface compliance at compile time
var _ ReviewService = (*reviewServiceImpl)(nil)

// reviewServiceImpl implements the ReviewService interface.
type reviewServiceImpl struct {
	cards      store.CardStore
	srsService srs.Service
	logger     *slog.Logger
}

// NewReviewService creates a new ReviewService implementation.
func NewReviewService(
	cards store.CardStore,
	srsService srs.Service,
	logger *slog.Logger,
) ReviewService {
	if cards == nil {
		panic("cards cannot be nil")
	}
	if srsService == nil {
		panic("srsService cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &reviewServiceImpl{
		cards:      cards,
		srsService: srsService,
		logger:     logger.With(slog.String("component", "review_service")),
	}
}

// CreateCard implements ReviewService.CreateCard.
func (s *reviewServiceImpl) CreateCard(
	ctx context.Context,
	ownerID, deckID uuid.UUID,
	front, back string,
) (*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if front == "" {
		return nil, ErrEmptyCard
	}

	card, err := domain.NewReviewCard(ownerID, deckID, front, back)
	if err != nil {
		return nil, fmt.Errorf("failed to build card: %w", err)
	}

	if err := s.cards.Save(ctx, card); err != nil {
		log.Error("failed to save new card",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to save card: %w", err)
	}

	log.Debug("card created",
		slog.String("card_id", card.ID.String()),
		slog.String("owner_id", ownerID.String()))
	return card, nil
}

// GetCard implements ReviewService.GetCard.
func (s *reviewServiceImpl) GetCard(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
) (*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.cards.GetByID(ctx, cardID)
	if err != nil {
		if errors.Is(err, store.ErrCardNotFound) {
			return nil, ErrCardNotFound
		}
		log.Error("failed to get card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, fmt.Errorf("failed to get card: %w", err)
	}

	if card.OwnerID != ownerID {
		log.Warn("card ownership mismatch",
			slog.String("card_id", cardID.String()),
			slog.String("owner_id", ownerID.String()))
		return nil, ErrCardNotOwned
	}

	return card, nil
}

// ListDueCards implements ReviewService.ListDueCards.
func (s *reviewServiceImpl) ListDueCards(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) ([]*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	cards, err := s.cards.ListDue(ctx, ownerID, limit)
	if err != nil {
		log.Error("failed to list due cards",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to list due cards: %w", err)
	}

	return cards, nil
}

// SubmitReview implements ReviewService.SubmitReview. It loads the card,
// computes the next schedule state, and upserts the result. The update is a
// keyed last-write-wins upsert, so no transaction is needed.
func (s *reviewServiceImpl) SubmitReview(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	grade ReviewGrade,
) (*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("processing review",
		slog.String("owner_id", ownerID.String()),
		slog.String("card_id", cardID.String()),
		slog.Int("quality", grade.Quality))

	if grade.Quality < 0 || grade.Quality > 5 {
		log.Warn("invalid review grade",
			slog.String("owner_id", ownerID.String()),
			slog.String("card_id", cardID.String()),
			slog.Int("quality", grade.Quality))
		return nil, ErrInvalidGrade
	}

	card, err := s.GetCard(ctx, ownerID, cardID)
	if err != nil {
		return nil, err
	}

	updated, err := s.srsService.NextState(card, grade.Quality, time.Now().UTC())
	if err != nil {
		if errors.Is(err, domain.ErrInvalidQuality) {
			return nil, ErrInvalidGrade
		}
		log.Error("failed to compute next review state",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{
			Operation: "submit_review",
			Message:   "failed to compute next review state",
			Err:       err,
		}
	}

	if err := s.cards.Save(ctx, updated); err != nil {
		log.Error("failed to persist reviewed card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{
			Operation: "submit_review",
			Message:   "failed to persist reviewed card",
			Err:       err,
		}
	}

	log.Debug("review processed",
		slog.String("card_id", cardID.String()),
		slog.Int("interval_days", updated.IntervalDays),
		slog.Float64("ease_factor", updated.EaseFactor),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}

// PostponeCard implements ReviewService.PostponeCard. The due date moves
// forward by the given days; ease, interval, and repetitions stay untouched.
func (s *reviewServiceImpl) PostponeCard(
	ctx context.Context,
	ownerID, cardID uuid.UUID,
	days int,
) (*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	card, err := s.GetCard(ctx, ownerID, cardID)
	if err != nil {
		return nil, err
	}

	updated, err := s.srsService.PostponeReview(card, days, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	if err := s.cards.Save(ctx, updated); err != nil {
		log.Error("failed to persist postponed card",
			slog.String("error", err.Error()),
			slog.String("card_id", cardID.String()))
		return nil, &ServiceError{
			Operation: "postpone_card",
			Message:   "failed to persist postponed card",
			Err:       err,
		}
	}

	log.Debug("card postponed",
		slog.String("card_id", cardID.String()),
		slog.Int("days", days),
		slog.Time("due_at", updated.DueAt))

	return updated, nil
}
