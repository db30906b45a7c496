// Package timer persists focus/break timer snapshots and recovers them after
// client reloads or crashes. The client owns the tick loop; the service owns
// durability and the catch-up math applied when a stale snapshot is loaded.
package timer

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
)

// Common error types for TimerService
var (
	// ErrNoSnapshot indicates the owner has no persisted timer state.
	ErrNoSnapshot = errors.New("no timer snapshot")

	// ErrNilSnapshot indicates a nil snapshot was passed to a save.
	ErrNilSnapshot = errors.New("timer snapshot cannot be nil")
)

// RecoveryResult is a loaded snapshot adjusted for the wall-clock time that
// passed while no client was ticking.
type RecoveryResult struct {
	// Snapshot is the adjusted timer state, ready to resume from.
	Snapshot *domain.TimerSnapshot

	// Resumable is true when the interval the snapshot was saved in is
	// still running. When false the interval expired while away and the
	// snapshot has been rolled forward into the next interval.
	Resumable bool
}

// TimerService persists and recovers per-owner timer snapshots.
type TimerService interface {
	// SaveTimerState upserts the owner's snapshot, stamping it with the
	// current time.
	SaveTimerState(ctx context.Context, snapshot *domain.TimerSnapshot) error

	// LoadTimerState fetches the owner's snapshot and applies recovery
	// against the current time. Fails with ErrNoSnapshot when nothing is
	// persisted.
	LoadTimerState(ctx context.Context, ownerID uuid.UUID) (*RecoveryResult, error)

	// ClearTimerState deletes the owner's snapshot. Idempotent.
	ClearTimerState(ctx context.Context, ownerID uuid.UUID) error
}

// EvaluateRecovery applies elapsed wall-clock time to a snapshot. If the
// saved interval still has time left, the remaining seconds are reduced by
// the elapsed time. If the interval expired while away, the snapshot rolls
// forward exactly one interval: a finished focus interval counts toward
// SessionsCompleted and hands off to a break, a finished break hands back
// to focus. The input snapshot is never mutated.
func EvaluateRecovery(snapshot *domain.TimerSnapshot, now time.Time) RecoveryResult {
	adjusted := *snapshot
	elapsed := int(now.Sub(snapshot.LastUpdatedAt).Seconds())
	if elapsed < 0 {
		elapsed = 0
	}

	if elapsed < snapshot.TimeRemainingSeconds {
		adjusted.TimeRemainingSeconds = snapshot.TimeRemainingSeconds - elapsed
		return RecoveryResult{Snapshot: &adjusted, Resumable: true}
	}

	switch snapshot.Mode {
	case domain.TimerModeFocus:
		adjusted.Mode = domain.TimerModeBreak
		adjusted.TimeRemainingSeconds = snapshot.BreakDurationSeconds
		adjusted.SessionsCompleted = snapshot.SessionsCompleted + 1
	default:
		adjusted.Mode = domain.TimerModeFocus
		adjusted.TimeRemainingSeconds = snapshot.FocusDurationSeconds
	}

	return RecoveryResult{Snapshot: &adjusted, Resumable: false}
}
