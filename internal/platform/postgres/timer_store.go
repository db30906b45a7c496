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

// PostgresTimerStore implements the store.TimerStore interface
// using a PostgreSQL database as the storage backend. The primary key is the
// owner ID, so every save overwrites the single snapshot row.
type PostgresTimerStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresTimerStore creates a new PostgreSQL implementation of the
// TimerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresTimerStore(db store.DBTX, logger *slog.Logger) *PostgresTimerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresTimerStore{
		db:     db,
		logger: logger.With(slog.String("component", "timer_store")),
	}
}

// Ensure PostgresTimerStore implements store.TimerStore interface
var _ store.TimerStore = (*PostgresTimerStore)(nil)

// Get implements store.TimerStore.Get
// Returns store.ErrSnapshotNotFound if no snapshot is persisted.
func (s *PostgresTimerStore) Get(ctx context.Context, ownerID uuid.UUID) (*domain.TimerSnapshot, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT owner_id, mode, time_remaining_seconds, sessions_completed,
		       focus_duration_seconds, break_duration_seconds, last_updated_at
		FROM timer_snapshots
		WHERE owner_id = $1
	`

	var snapshot domain.TimerSnapshot
	var mode string

	err := s.db.QueryRowContext(ctx, query, ownerID).Scan(
		&snapshot.OwnerID,
		&mode,
		&snapshot.TimeRemainingSeconds,
		&snapshot.SessionsCompleted,
		&snapshot.FocusDurationSeconds,
		&snapshot.BreakDurationSeconds,
		&snapshot.LastUpdatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("no timer snapshot", slog.String("owner_id", ownerID.String()))
			return nil, store.ErrSnapshotNotFound
		}
		log.Error("failed to get timer snapshot",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, mapped
	}

	snapshot.Mode = domain.TimerMode(mode)

	return &snapshot, nil
}

// Save implements store.TimerStore.Save
// It upserts the snapshot keyed by owner ID; the last write wins.
func (s *PostgresTimerStore) Save(ctx context.Context, snapshot *domain.TimerSnapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := snapshot.Validate(); err != nil {
		log.Warn("timer snapshot validation failed during save",
			slog.String("error", err.Error()),
			slog.String("owner_id", snapshot.OwnerID.String()))
		return err
	}

	query := `
		INSERT INTO timer_snapshots (
			owner_id, mode, time_remaining_seconds, sessions_completed,
			focus_duration_seconds, break_duration_seconds, last_updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (owner_id) DO UPDATE SET
			mode                   = EXCLUDED.mode,
			time_remaining_seconds = EXCLUDED.time_remaining_seconds,
			sessions_completed     = EXCLUDED.sessions_completed,
			focus_duration_seconds = EXCLUDED.focus_duration_seconds,
			break_duration_seconds = EXCLUDED.break_duration_seconds,
			last_updated_at        = EXCLUDED.last_updated_at
	`

	_, err := s.db.ExecContext(
		ctx,
		query,
		snapshot.OwnerID,
		snapshot.Mode,
		snapshot.TimeRemainingSeconds,
		snapshot.SessionsCompleted,
		snapshot.FocusDurationSeconds,
		snapshot.BreakDurationSeconds,
		snapshot.LastUpdatedAt,
	)

	if err != nil {
		log.Error("failed to save timer snapshot",
			slog.String("error", err.Error()),
			slog.String("owner_id", snapshot.OwnerID.String()))
		return MapError(err)
	}

	log.Debug("timer snapshot saved",
		slog.String("owner_id", snapshot.OwnerID.String()),
		slog.String("mode", string(snapshot.Mode)),
		slog.Int("time_remaining_seconds", snapshot.TimeRemainingSeconds))
	return nil
}

// Delete implements store.TimerStore.Delete
// Clearing an absent snapshot is not an error.
func (s *PostgresTimerStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM timer_snapshots WHERE owner_id = $1`

	if _, err := s.db.ExecContext(ctx, query, ownerID); err != nil {
		log.Error("failed to delete timer snapshot",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return MapError(err)
	}

	log.Debug("timer snapshot deleted", slog.String("owner_id", ownerID.String()))
	return nil
}
