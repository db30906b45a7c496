package postgres

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// PostgresCardStore implements the store.CardStore interface
// using a PostgreSQL database as the storage backend.
type PostgresCardStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresCardStore creates a new PostgreSQL implementation of the
// CardStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresCardStore(db store.DBTX, logger *slog.Logger) *PostgresCardStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresCardStore{
		db:     db,
		logger: logger.With(slog.String("component", "card_store")),
	}
}

// Ensure PostgresCardStore implements store.CardStore interface
var _ store.CardStore = (*PostgresCardStore)(nil)

// GetByID implements store.CardStore.GetByID
// Returns store.ErrCardNotFound if the card does not exist.
func (s *PostgresCardStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, deck_id, owner_id, front_content, back_content,
		       ease_factor, interval_days, repetitions, due_at,
		       last_reviewed_at, created_at, updated_at
		FROM review_cards
		WHERE id = $1
	`

	var card domain.ReviewCard

	err := s.db.QueryRowContext(ctx, query, id).Scan(
		&card.ID,
		&card.DeckID,
		&card.OwnerID,
		&card.FrontContent,
		&card.BackContent,
		&card.EaseFactor,
		&card.IntervalDays,
		&card.Repetitions,
		&card.DueAt,
		&card.LastReviewedAt,
		&card.CreatedAt,
		&card.UpdatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("card not found", slog.String("card_id", id.String()))
			return nil, store.ErrCardNotFound
		}
		log.Error("failed to get card by ID",
			slog.String("error", err.Error()),
			slog.String("card_id", id.String()))
		return nil, mapped
	}

	return &card, nil
}

// Save implements store.CardStore.Save
// It upserts the card keyed by its ID; the last write wins.
func (s *PostgresCardStore) Save(ctx context.Context, card *domain.ReviewCard) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := card.Validate(); err != nil {
		log.Warn("card validation failed during save",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return err
	}

	query := `
		INSERT INTO review_cards (
			id, deck_id, owner_id, front_content, back_content,
			ease_factor, interval_days, repetitions, due_at,
			last_reviewed_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		ON CONFLICT (id) DO UPDATE SET
			front_content    = EXCLUDED.front_content,
			back_content     = EXCLUDED.back_content,
			ease_factor      = EXCLUDED.ease_factor,
			interval_days    = EXCLUDED.interval_days,
			repetitions      = EXCLUDED.repetitions,
			due_at           = EXCLUDED.due_at,
			last_reviewed_at = EXCLUDED.last_reviewed_at,
			updated_at       = EXCLUDED.updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		card.ID,
		card.DeckID,
		card.OwnerID,
		card.FrontContent,
		card.BackContent,
		card.EaseFactor,
		card.IntervalDays,
		card.Repetitions,
		card.DueAt,
		card.LastReviewedAt,
		card.CreatedAt,
		card.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to save card",
			slog.String("error", err.Error()),
			slog.String("card_id", card.ID.String()))
		return MapError(err)
	}

	log.Debug("card saved",
		slog.String("card_id", card.ID.String()),
		slog.Int("interval_days", card.IntervalDays),
		slog.Time("due_at", card.DueAt))
	return nil
}

// ListDue implements store.CardStore.ListDue
// It retrieves the owner's due cards ordered by due date, then ID.
func (s *PostgresCardStore) ListDue(
	ctx context.Context,
	ownerID uuid.UUID,
	limit int,
) ([]*domain.ReviewCard, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, deck_id, owner_id, front_content, back_content,
		       ease_factor, interval_days, repetitions, due_at,
		       last_reviewed_at, created_at, updated_at
		FROM review_cards
		WHERE owner_id = $1 AND due_at <= now()
		ORDER BY due_at ASC, id ASC
		LIMIT $2
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID, limit)
	if err != nil {
		log.Error("failed to query due cards",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	cards := []*domain.ReviewCard{}
	for rows.Next() {
		var card domain.ReviewCard
		err := rows.Scan(
			&card.ID,
			&card.DeckID,
			&card.OwnerID,
			&card.FrontContent,
			&card.BackContent,
			&card.EaseFactor,
			&card.IntervalDays,
			&card.Repetitions,
			&card.DueAt,
			&card.LastReviewedAt,
			&card.CreatedAt,
			&card.UpdatedAt,
		)
		if err != nil {
			log.Error("failed to scan card row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		cards = append(cards, &card)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed due cards",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(cards)))
	return cards, nil
}
