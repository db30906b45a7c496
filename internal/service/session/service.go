// Package session implements the guided study session workflow engine: a
// persisted, resumable state machine that walks one session per owner
// through a fixed set of stages.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// WorkflowService manages the lifecycle of guided study sessions.
type WorkflowService interface {
	// StartSession creates a session in the initial stage. Fails with
	// ErrAlreadyActive if the owner already has an active session.
	StartSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error)

	// GetActiveSession returns the owner's active session, or (nil, nil)
	// when there is none. A missing session is never an error.
	GetActiveSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error)

	// UpdateSessionStage moves the active session to targetStageID. Fails
	// with ErrInvalidTransition when the current stage does not allow the
	// target, leaving the session unchanged.
	UpdateSessionStage(ctx context.Context, ownerID uuid.UUID, targetStageID string) (*domain.WorkflowSession, error)

	// CompleteSession marks the active session completed. Fails with
	// ErrNoActiveSession when the owner has no active session.
	CompleteSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error)

	// AbandonSession marks the active session abandoned. Same failure mode
	// as CompleteSession.
	AbandonSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error)

	// Heartbeat refreshes the active session's last-seen timestamp. It is
	// best effort: a missing session or a storage failure is reported but
	// never blocks session progress.
	Heartbeat(ctx context.Context, ownerID uuid.UUID) error

	// Stages exposes the static stage configuration.
	Stages() *StageConfig
}

// Common error types for WorkflowService
var (
	// ErrAlreadyActive indicates the owner already has an active session.
	ErrAlreadyActive = errors.New("an active session already exists")

	// ErrNoActiveSession indicates the owner has no active session.
	ErrNoActiveSession = errors.New("no active session")

	// ErrInvalidTransition indicates the requested stage is not reachable
	// from the current stage.
	ErrInvalidTransition = errors.New("invalid stage transition")

	// ErrUnknownStage indicates the requested stage is not part of the
	// configured stage set.
	ErrUnknownStage = errors.New("unknown stage")
)

// Overview is a read-only projection of session state for display. It is
// recomputed from a fetched session on every request; there is no hidden
// observer machinery behind it.
type Overview struct {
	HasActiveSession bool                  `json:"has_active_session"`
	Stage            *domain.WorkflowStage `json:"stage,omitempty"`
	DurationMinutes  int                   `json:"duration_minutes"`
	StagesVisited    int                   `json:"stages_visited"`
}

// Project derives an Overview from a session (which may be nil) against the
// stage configuration. Pure function: same inputs, same projection.
func Project(session *domain.WorkflowSession, stages *StageConfig, now time.Time) Overview {
	if session == nil || !session.IsActive() {
		return Overview{}
	}

	overview := Overview{
		HasActiveSession: true,
		DurationMinutes:  session.DurationMinutes(now),
		StagesVisited:    len(session.StageHistory),
	}

	if stage, ok := stages.Get(session.CurrentStageID); ok {
		overview.Stage = &stage
	}

	return overview
}
