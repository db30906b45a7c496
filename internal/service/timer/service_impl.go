package timer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// Verify interface compliance at compile time
var _ TimerService = (*timerServiceImpl)(nil)

// timerServiceImpl implements the TimerService interface.
type timerServiceImpl struct {
	snapshots store.TimerStore
	logger    *slog.Logger
	now       func() time.Time
}

// NewTimerService creates a new TimerService backed by the given snapshot
// store.
func NewTimerService(snapshots store.TimerStore, logger *slog.Logger) TimerService {
	if snapshots == nil {
		panic("snapshots cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &timerServiceImpl{
		snapshots: snapshots,
		logger:    logger.With(slog.String("component", "timer_service")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// SaveTimerState implements TimerService.SaveTimerState.
func (s *timerServiceImpl) SaveTimerState(ctx context.Context, snapshot *domain.TimerSnapshot) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if snapshot == nil {
		return ErrNilSnapshot
	}

	stamped := *snapshot
	stamped.LastUpdatedAt = s.now()

	if err := stamped.Validate(); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrValidation, err)
	}

	if err := s.snapshots.Save(ctx, &stamped); err != nil {
		log.Error("failed to save timer snapshot",
			slog.String("error", err.Error()),
			slog.String("owner_id", stamped.OwnerID.String()))
		return fmt.Errorf("failed to save timer snapshot: %w", err)
	}

	log.Debug("timer snapshot saved",
		slog.String("owner_id", stamped.OwnerID.String()),
		slog.String("mode", string(stamped.Mode)),
		slog.Int("time_remaining_seconds", stamped.TimeRemainingSeconds))
	return nil
}

// LoadTimerState implements TimerService.LoadTimerState.
func (s *timerServiceImpl) LoadTimerState(ctx context.Context, ownerID uuid.UUID) (*RecoveryResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	snapshot, err := s.snapshots.Get(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrSnapshotNotFound) {
			return nil, ErrNoSnapshot
		}
		log.Error("failed to load timer snapshot",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to load timer snapshot: %w", err)
	}

	result := EvaluateRecovery(snapshot, s.now())

	if !result.Resumable {
		log.Info("timer snapshot was stale, rolled into next interval",
			slog.String("owner_id", ownerID.String()),
			slog.String("mode", string(result.Snapshot.Mode)),
			slog.Int("sessions_completed", result.Snapshot.SessionsCompleted))
	}

	return &result, nil
}

// ClearTimerState implements TimerService.ClearTimerState.
func (s *timerServiceImpl) ClearTimerState(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.snapshots.Delete(ctx, ownerID); err != nil {
		log.Error("failed to clear timer snapshot",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return fmt.Errorf("failed to clear timer snapshot: %w", err)
	}

	return nil
}
