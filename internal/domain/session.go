package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// SessionStatus represents the lifecycle state of a guided study session.
type SessionStatus string

// Possible session status values
const (
	SessionStatusActive    SessionStatus = "active"
	SessionStatusCompleted SessionStatus = "completed"
	SessionStatusAbandoned SessionStatus = "abandoned"
)

// Common validation errors for WorkflowSession
var (
	ErrEmptySessionID      = errors.New("workflow session ID cannot be empty")
	ErrEmptySessionOwner   = errors.New("workflow session owner ID cannot be empty")
	ErrEmptySessionStage   = errors.New("workflow session stage cannot be empty")
	ErrInvalidSessionState = errors.New("invalid workflow session status")
)

// WorkflowStage is one step of the guided session flow. Stages are static
// configuration, not user data: the set is fixed at startup and transitions
// must follow AllowedNext.
type WorkflowStage struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Order       int      `json:"order"`
	AllowedNext []string `json:"allowed_next"`
}

// Allows reports whether this stage permits a transition to target.
func (s WorkflowStage) Allows(target string) bool {
	for _, next := range s.AllowedNext {
		if next == target {
			return true
		}
	}
	return false
}

// StageVisit records one entry into a stage during a session.
type StageVisit struct {
	StageID   string    `json:"stage_id"`
	EnteredAt time.Time `json:"entered_at"`
}

// WorkflowSession is one guided study session. At most one active session
// exists per owner; the store enforces this with upsert-on-owner semantics.
type WorkflowSession struct {
	ID             uuid.UUID     `json:"id"`
	OwnerID        uuid.UUID     `json:"owner_id"`
	CurrentStageID string        `json:"current_stage_id"`
	Status         SessionStatus `json:"status"`
	StartedAt      time.Time     `json:"started_at"`
	StageHistory   []StageVisit  `json:"stage_history"`
	LastSeenAt     time.Time     `json:"last_seen_at"` // Refreshed by heartbeats
	UpdatedAt      time.Time     `json:"updated_at"`
}

// NewWorkflowSession creates an active session positioned at the given
// initial stage.
func NewWorkflowSession(ownerID uuid.UUID, initialStageID string) (*WorkflowSession, error) {
	now := time.Now().UTC()
	session := &WorkflowSession{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		CurrentStageID: initialStageID,
		Status:         SessionStatusActive,
		StartedAt:      now,
		StageHistory:   []StageVisit{{StageID: initialStageID, EnteredAt: now}},
		LastSeenAt:     now,
		UpdatedAt:      now,
	}

	if err := session.Validate(); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate checks if the WorkflowSession has valid data.
func (s *WorkflowSession) Validate() error {
	if s.ID == uuid.Nil {
		return ErrEmptySessionID
	}

	if s.OwnerID == uuid.Nil {
		return ErrEmptySessionOwner
	}

	if s.CurrentStageID == "" {
		return ErrEmptySessionStage
	}

	switch s.Status {
	case SessionStatusActive, SessionStatusCompleted, SessionStatusAbandoned:
	default:
		return ErrInvalidSessionState
	}

	return nil
}

// IsActive reports whether the session is still in progress.
func (s *WorkflowSession) IsActive() bool {
	return s.Status == SessionStatusActive
}

// DurationMinutes returns how long the session has been running, floored to
// whole minutes.
func (s *WorkflowSession) DurationMinutes(now time.Time) int {
	if now.Before(s.StartedAt) {
		return 0
	}
	return int(now.Sub(s.StartedAt).Minutes())
}
