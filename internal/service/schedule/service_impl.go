package schedule

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/planner"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// Verify interface compliance at compile time
var _ ScheduleService = (*scheduleServiceImpl)(nil)

// scheduleServiceImpl implements the ScheduleService interface.
type scheduleServiceImpl struct {
	planner store.PlannerStore
	logger  *slog.Logger
	now     func() time.Time
}

// NewScheduleService creates a new ScheduleService backed by the given
// planner store.
func NewScheduleService(plannerStore store.PlannerStore, logger *slog.Logger) ScheduleService {
	if plannerStore == nil {
		panic("plannerStore cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &scheduleServiceImpl{
		planner: plannerStore,
		logger:  logger.With(slog.String("component", "schedule_service")),
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// GenerateWeeklySchedule implements ScheduleService.GenerateWeeklySchedule.
func (s *scheduleServiceImpl) GenerateWeeklySchedule(
	ctx context.Context,
	ownerID uuid.UUID,
	weekNumber int,
) (*domain.WeeklySchedule, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	items, err := s.planner.GetFocusItems(ctx, ownerID)
	if err != nil {
		log.Error("failed to load focus items",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to load focus items: %w", err)
	}

	exams, err := s.planner.GetExams(ctx, ownerID)
	if err != nil {
		log.Error("failed to load exams",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to load exams: %w", err)
	}

	weekly, err := planner.Generate(items, exams, weekNumber, s.now())
	if err != nil {
		return nil, err
	}

	log.Debug("weekly schedule generated",
		slog.String("owner_id", ownerID.String()),
		slog.Int("week_number", weekNumber),
		slog.String("emphasis_subject", weekly.EmphasisSubject),
		slog.Float64("total_hours", weekly.TotalHours))
	return weekly, nil
}

// GetFocusItems implements ScheduleService.GetFocusItems.
func (s *scheduleServiceImpl) GetFocusItems(ctx context.Context, ownerID uuid.UUID) ([]domain.FocusItem, error) {
	items, err := s.planner.GetFocusItems(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load focus items: %w", err)
	}
	return items, nil
}

// ReplaceFocusItems implements ScheduleService.ReplaceFocusItems.
func (s *scheduleServiceImpl) ReplaceFocusItems(
	ctx context.Context,
	ownerID uuid.UUID,
	items []domain.FocusItem,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	seen := make(map[string]struct{}, len(items))
	for i := range items {
		if err := items[i].Validate(); err != nil {
			return fmt.Errorf("%w: focus item %q: %w", domain.ErrValidation, items[i].Subject, err)
		}

		key := strings.ToLower(items[i].Subject)
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: %q", ErrDuplicateSubject, items[i].Subject)
		}
		seen[key] = struct{}{}
	}

	if err := s.planner.ReplaceFocusItems(ctx, ownerID, items); err != nil {
		log.Error("failed to replace focus items",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return fmt.Errorf("failed to replace focus items: %w", err)
	}

	log.Info("focus configuration replaced",
		slog.String("owner_id", ownerID.String()),
		slog.Int("subjects", len(items)))
	return nil
}

// GetExams implements ScheduleService.GetExams.
func (s *scheduleServiceImpl) GetExams(ctx context.Context, ownerID uuid.UUID) ([]domain.Exam, error) {
	exams, err := s.planner.GetExams(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load exams: %w", err)
	}
	return exams, nil
}

// ReplaceExams implements ScheduleService.ReplaceExams.
func (s *scheduleServiceImpl) ReplaceExams(
	ctx context.Context,
	ownerID uuid.UUID,
	exams []domain.Exam,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i := range exams {
		if err := exams[i].Validate(); err != nil {
			return fmt.Errorf("%w: exam %q: %w", domain.ErrValidation, exams[i].Subject, err)
		}
	}

	if err := s.planner.ReplaceExams(ctx, ownerID, exams); err != nil {
		log.Error("failed to replace exams",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return fmt.Errorf("failed to replace exams: %w", err)
	}

	log.Info("exam list replaced",
		slog.String("owner_id", ownerID.String()),
		slog.Int("exams", len(exams)))
	return nil
}
