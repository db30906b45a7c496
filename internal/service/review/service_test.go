package review_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/srs"
	"github.com/studyloop/studyloop-api/internal/service/review"
	"github.com/studyloop/studyloop-api/internal/store"
)

// mockCardStore is a testify mock for store.CardStore.
type mockCardStore struct {
	mock.Mock
}

func (m *mockCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewCard, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReviewCard), args.Error(1)
}

func (m *mockCardStore) Save(ctx context.Context, card *domain.ReviewCard) error {
	args := m.Called(ctx, card)
	return args.Error(0)
}

func (m *mockCardStore) ListDue(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.ReviewCard, error) {
	args := m.Called(ctx, ownerID, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.ReviewCard), args.Error(1)
}

func newReviewService(t *testing.T, cards store.CardStore) review.ReviewService {
	t.Helper()
	return review.NewReviewService(cards, srs.NewDefaultService(), nil)
}

func storedCard(ownerID uuid.UUID) *domain.ReviewCard {
	now := time.Now().UTC()
	return &domain.ReviewCard{
		ID:           uuid.New(),
		DeckID:       uuid.New(),
		OwnerID:      ownerID,
		FrontContent: "What is the capital of France?",
		BackContent:  "Paris",
		EaseFactor:   2.5,
		IntervalDays: 6,
		Repetitions:  2,
		DueAt:        now.Add(-time.Hour),
		CreatedAt:    now.Add(-30 * 24 * time.Hour),
		UpdatedAt:    now.Add(-6 * 24 * time.Hour),
	}
}

func TestCreateCard(t *testing.T) {
	t.Parallel()

	t.Run("creates a card due immediately", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		deckID := uuid.New()
		cards := new(mockCardStore)
		cards.On("Save", mock.Anything, mock.MatchedBy(func(c *domain.ReviewCard) bool {
			return c.OwnerID == ownerID && c.DeckID == deckID && c.Repetitions == 0
		})).Return(nil)

		svc := newReviewService(t, cards)
		card, err := svc.CreateCard(context.Background(), ownerID, deckID, "front", "back")

		require.NoError(t, err)
		assert.Equal(t, "front", card.FrontContent)
		assert.True(t, card.IsDue(time.Now().UTC().Add(time.Second)))
		cards.AssertExpectations(t)
	})

	t.Run("rejects an empty front", func(t *testing.T) {
		t.Parallel()

		cards := new(mockCardStore)
		svc := newReviewService(t, cards)

		card, err := svc.CreateCard(context.Background(), uuid.New(), uuid.New(), "", "back")

		assert.ErrorIs(t, err, review.ErrEmptyCard)
		assert.Nil(t, card)
		cards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGetCard(t *testing.T) {
	t.Parallel()

	t.Run("returns an owned card", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		card := storedCard(ownerID)
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := newReviewService(t, cards)
		got, err := svc.GetCard(context.Background(), ownerID, card.ID)

		require.NoError(t, err)
		assert.Equal(t, card.ID, got.ID)
	})

	t.Run("hides cards owned by someone else", func(t *testing.T) {
		t.Parallel()

		card := storedCard(uuid.New())
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := newReviewService(t, cards)
		got, err := svc.GetCard(context.Background(), uuid.New(), card.ID)

		assert.ErrorIs(t, err, review.ErrCardNotOwned)
		assert.Nil(t, got)
	})

	t.Run("maps missing cards to ErrCardNotFound", func(t *testing.T) {
		t.Parallel()

		cardID := uuid.New()
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, cardID).Return(nil, store.ErrCardNotFound)

		svc := newReviewService(t, cards)
		got, err := svc.GetCard(context.Background(), uuid.New(), cardID)

		assert.ErrorIs(t, err, review.ErrCardNotFound)
		assert.Nil(t, got)
	})
}

func TestSubmitReview(t *testing.T) {
	t.Parallel()

	t.Run("advances the schedule on a passing grade", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		card := storedCard(ownerID)
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
		cards.On("Save", mock.Anything, mock.AnythingOfType("*domain.ReviewCard")).Return(nil)

		svc := newReviewService(t, cards)
		updated, err := svc.SubmitReview(context.Background(), ownerID, card.ID, review.ReviewGrade{Quality: 5})

		require.NoError(t, err)
		assert.Equal(t, 3, updated.Repetitions)
		assert.Equal(t, 15, updated.IntervalDays)
		assert.InDelta(t, 2.6, updated.EaseFactor, 0.0001)
		assert.True(t, updated.DueAt.After(time.Now().UTC()))
	})

	t.Run("resets the schedule on a failing grade", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		card := storedCard(ownerID)
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
		cards.On("Save", mock.Anything, mock.AnythingOfType("*domain.ReviewCard")).Return(nil)

		svc := newReviewService(t, cards)
		updated, err := svc.SubmitReview(context.Background(), ownerID, card.ID, review.ReviewGrade{Quality: 1})

		require.NoError(t, err)
		assert.Equal(t, 0, updated.Repetitions)
		assert.Equal(t, 1, updated.IntervalDays)
		assert.Less(t, updated.EaseFactor, card.EaseFactor)
	})

	t.Run("rejects out-of-range grades without touching storage", func(t *testing.T) {
		t.Parallel()

		cards := new(mockCardStore)
		svc := newReviewService(t, cards)

		for _, quality := range []int{-1, 6, 100} {
			updated, err := svc.SubmitReview(context.Background(), uuid.New(), uuid.New(), review.ReviewGrade{Quality: quality})
			assert.ErrorIs(t, err, review.ErrInvalidGrade)
			assert.Nil(t, updated)
		}
		cards.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("refuses to grade an unowned card", func(t *testing.T) {
		t.Parallel()

		card := storedCard(uuid.New())
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := newReviewService(t, cards)
		updated, err := svc.SubmitReview(context.Background(), uuid.New(), card.ID, review.ReviewGrade{Quality: 4})

		assert.ErrorIs(t, err, review.ErrCardNotOwned)
		assert.Nil(t, updated)
		cards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("wraps persistence failures in a ServiceError", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		card := storedCard(ownerID)
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
		cards.On("Save", mock.Anything, mock.AnythingOfType("*domain.ReviewCard")).Return(store.ErrStorageUnavailable)

		svc := newReviewService(t, cards)
		updated, err := svc.SubmitReview(context.Background(), ownerID, card.ID, review.ReviewGrade{Quality: 4})

		require.Error(t, err)
		assert.Nil(t, updated)

		var svcErr *review.ServiceError
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "submit_review", svcErr.Operation)
		assert.ErrorIs(t, err, store.ErrStorageUnavailable)
	})
}

func TestPostponeCard(t *testing.T) {
	t.Parallel()

	t.Run("pushes the due date without touching the schedule", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		card := storedCard(ownerID)
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)
		cards.On("Save", mock.Anything, mock.AnythingOfType("*domain.ReviewCard")).Return(nil)

		svc := newReviewService(t, cards)
		updated, err := svc.PostponeCard(context.Background(), ownerID, card.ID, 3)

		require.NoError(t, err)
		assert.Equal(t, card.DueAt.AddDate(0, 0, 3), updated.DueAt)
		assert.Equal(t, card.EaseFactor, updated.EaseFactor)
		assert.Equal(t, card.IntervalDays, updated.IntervalDays)
		assert.Equal(t, card.Repetitions, updated.Repetitions)
		cards.AssertExpectations(t)
	})

	t.Run("rejects non-positive day counts without touching storage", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		card := storedCard(ownerID)
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := newReviewService(t, cards)
		updated, err := svc.PostponeCard(context.Background(), ownerID, card.ID, 0)

		assert.ErrorIs(t, err, srs.ErrInvalidDays)
		assert.Nil(t, updated)
		cards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("refuses to postpone an unowned card", func(t *testing.T) {
		t.Parallel()

		card := storedCard(uuid.New())
		cards := new(mockCardStore)
		cards.On("GetByID", mock.Anything, card.ID).Return(card, nil)

		svc := newReviewService(t, cards)
		updated, err := svc.PostponeCard(context.Background(), uuid.New(), card.ID, 2)

		assert.ErrorIs(t, err, review.ErrCardNotOwned)
		assert.Nil(t, updated)
		cards.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestListDueCards(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	due := []*domain.ReviewCard{storedCard(ownerID), storedCard(ownerID)}
	cards := new(mockCardStore)
	cards.On("ListDue", mock.Anything, ownerID, 10).Return(due, nil)

	svc := newReviewService(t, cards)
	got, err := svc.ListDueCards(context.Background(), ownerID, 10)

	require.NoError(t, err)
	assert.Len(t, got, 2)
	cards.AssertExpectations(t)
}
