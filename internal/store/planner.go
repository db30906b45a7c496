package store

import (
	"context"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// PlannerStore defines the interface for the weekly-focus configuration that
// feeds schedule generation: per-subject hour targets and upcoming exams.
type PlannerStore interface {
	// GetFocusItems retrieves the owner's focus items ordered by subject.
	// Returns an empty slice for owners with no configuration.
	GetFocusItems(ctx context.Context, ownerID uuid.UUID) ([]domain.FocusItem, error)

	// ReplaceFocusItems replaces the owner's focus configuration wholesale.
	// Subjects are unique within a plan, so the operation is an atomic
	// delete-and-insert keyed by owner.
	ReplaceFocusItems(ctx context.Context, ownerID uuid.UUID, items []domain.FocusItem) error

	// GetExams retrieves the owner's exams ordered by exam date.
	// Returns an empty slice for owners with no exams.
	GetExams(ctx context.Context, ownerID uuid.UUID) ([]domain.Exam, error)

	// ReplaceExams replaces the owner's exam list wholesale.
	ReplaceExams(ctx context.Context, ownerID uuid.UUID, exams []domain.Exam) error
}
