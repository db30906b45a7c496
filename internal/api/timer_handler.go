package api

import (
	"log/slog"
	"net/http"

	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service/timer"
)

// TimerStateRequest represents the request body for saving timer state.
type TimerStateRequest struct {
	Mode                 string `json:"mode"                   validate:"required,oneof=focus break"`
	TimeRemainingSeconds int    `json:"time_remaining_seconds" validate:"min=0"`
	SessionsCompleted    int    `json:"sessions_completed"     validate:"min=0"`
	FocusDurationSeconds int    `json:"focus_duration_seconds" validate:"min=1"`
	BreakDurationSeconds int    `json:"break_duration_seconds" validate:"min=1"`
}

// TimerStateResponse represents a loaded timer state after recovery.
type TimerStateResponse struct {
	Mode                 string `json:"mode"`
	TimeRemainingSeconds int    `json:"time_remaining_seconds"`
	SessionsCompleted    int    `json:"sessions_completed"`
	FocusDurationSeconds int    `json:"focus_duration_seconds"`
	BreakDurationSeconds int    `json:"break_duration_seconds"`
	Resumable            bool   `json:"resumable"`
}

// TimerHandler handles timer snapshot persistence and recovery requests.
type TimerHandler struct {
	timerService timer.TimerService
	logger       *slog.Logger
}

// NewTimerHandler creates a new TimerHandler.
func NewTimerHandler(timerService timer.TimerService, logger *slog.Logger) *TimerHandler {
	if timerService == nil {
		panic("timerService cannot be nil for TimerHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for TimerHandler")
	}

	return &TimerHandler{
		timerService: timerService,
		logger:       logger.With(slog.String("component", "timer_handler")),
	}
}

// SaveTimerState handles PUT /timer requests, overwriting the owner's
// persisted timer snapshot.
func (h *TimerHandler) SaveTimerState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req TimerStateRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	snapshot := &domain.TimerSnapshot{
		OwnerID:              ownerID,
		Mode:                 domain.TimerMode(req.Mode),
		TimeRemainingSeconds: req.TimeRemainingSeconds,
		SessionsCompleted:    req.SessionsCompleted,
		FocusDurationSeconds: req.FocusDurationSeconds,
		BreakDurationSeconds: req.BreakDurationSeconds,
	}

	if err := h.timerService.SaveTimerState(r.Context(), snapshot); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("timer state saved via API",
		slog.String("owner_id", ownerID.String()),
		slog.String("mode", req.Mode))
	w.WriteHeader(http.StatusNoContent)
}

// LoadTimerState handles GET /timer requests. The persisted snapshot is
// adjusted for the time elapsed since it was saved before being returned.
func (h *TimerHandler) LoadTimerState(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	result, err := h.timerService.LoadTimerState(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("timer state loaded via API",
		slog.String("owner_id", ownerID.String()),
		slog.Bool("resumable", result.Resumable))
	shared.RespondWithJSON(w, r, http.StatusOK, TimerStateResponse{
		Mode:                 string(result.Snapshot.Mode),
		TimeRemainingSeconds: result.Snapshot.TimeRemainingSeconds,
		SessionsCompleted:    result.Snapshot.SessionsCompleted,
		FocusDurationSeconds: result.Snapshot.FocusDurationSeconds,
		BreakDurationSeconds: result.Snapshot.BreakDurationSeconds,
		Resumable:            result.Resumable,
	})
}

// ClearTimerState handles DELETE /timer requests. Clearing is idempotent;
// deleting a missing snapshot still succeeds.
func (h *TimerHandler) ClearTimerState(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.timerService.ClearTimerState(r.Context(), ownerID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
