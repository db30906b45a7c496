// Package schedule exposes the weekly time-allocation planner as a service:
// it loads an owner's focus configuration and exams, runs the deterministic
// planner over them, and manages the configuration itself.
package schedule

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// Common error types for ScheduleService
var (
	// ErrDuplicateSubject indicates the same subject appears twice in a
	// focus configuration.
	ErrDuplicateSubject = errors.New("duplicate subject in focus configuration")
)

// ScheduleService generates weekly schedules and manages the focus
// configuration and exam list that feed them.
type ScheduleService interface {
	// GenerateWeeklySchedule produces the owner's schedule for the given
	// ISO week of the current year. Week numbers run 1 through 53.
	GenerateWeeklySchedule(ctx context.Context, ownerID uuid.UUID, weekNumber int) (*domain.WeeklySchedule, error)

	// GetFocusItems returns the owner's focus configuration.
	GetFocusItems(ctx context.Context, ownerID uuid.UUID) ([]domain.FocusItem, error)

	// ReplaceFocusItems replaces the owner's focus configuration wholesale.
	// Subjects must be unique; each item must validate.
	ReplaceFocusItems(ctx context.Context, ownerID uuid.UUID, items []domain.FocusItem) error

	// GetExams returns the owner's exam list.
	GetExams(ctx context.Context, ownerID uuid.UUID) ([]domain.Exam, error)

	// ReplaceExams replaces the owner's exam list wholesale. Each exam must
	// validate.
	ReplaceExams(ctx context.Context, ownerID uuid.UUID, exams []domain.Exam) error
}
