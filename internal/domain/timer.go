package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// TimerMode distinguishes focus intervals from break intervals.
type TimerMode string

// Possible timer modes
const (
	TimerModeFocus TimerMode = "focus"
	TimerModeBreak TimerMode = "break"
)

// Common validation errors for TimerSnapshot
var (
	ErrEmptyTimerOwner     = errors.New("timer snapshot owner ID cannot be empty")
	ErrNegativeRemaining   = errors.New("time remaining cannot be negative")
	ErrNegativeSessions    = errors.New("sessions completed cannot be negative")
	ErrInvalidTimerLengths = errors.New("focus and break durations must be positive")
)

// TimerSnapshot is the persisted state of an owner's focus/break timer. The
// client ticks locally and periodically saves a snapshot so the timer
// survives reloads and crashes. At most one snapshot exists per owner; every
// save overwrites the previous one.
type TimerSnapshot struct {
	OwnerID              uuid.UUID `json:"owner_id"`
	Mode                 TimerMode `json:"mode"`
	TimeRemainingSeconds int       `json:"time_remaining_seconds"`
	SessionsCompleted    int       `json:"sessions_completed"`
	FocusDurationSeconds int       `json:"focus_duration_seconds"`
	BreakDurationSeconds int       `json:"break_duration_seconds"`
	LastUpdatedAt        time.Time `json:"last_updated_at"`
}

// Validate checks if the TimerSnapshot has valid data.
func (t *TimerSnapshot) Validate() error {
	if t.OwnerID == uuid.Nil {
		return ErrEmptyTimerOwner
	}

	switch t.Mode {
	case TimerModeFocus, TimerModeBreak:
	default:
		return ErrInvalidTimerMode
	}

	if t.TimeRemainingSeconds < 0 {
		return ErrNegativeRemaining
	}

	if t.SessionsCompleted < 0 {
		return ErrNegativeSessions
	}

	if t.FocusDurationSeconds <= 0 || t.BreakDurationSeconds <= 0 {
		return ErrInvalidTimerLengths
	}

	return nil
}
