package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service/session"
)

// SessionResponse represents the response data for a workflow session.
type SessionResponse struct {
	ID             string                 `json:"id"`
	CurrentStageID string                 `json:"current_stage_id"`
	Status         string                 `json:"status"`
	StartedAt      time.Time              `json:"started_at"`
	StageHistory   []domain.StageVisit    `json:"stage_history"`
	Overview       session.Overview       `json:"overview"`
	Stages         []domain.WorkflowStage `json:"stages"`
}

// UpdateStageRequest represents the request body for a stage transition.
type UpdateStageRequest struct {
	StageID string `json:"stage_id" validate:"required"`
}

// SessionHandler handles guided session workflow requests.
type SessionHandler struct {
	workflowService session.WorkflowService
	logger          *slog.Logger
}

// NewSessionHandler creates a new SessionHandler.
func NewSessionHandler(workflowService session.WorkflowService, logger *slog.Logger) *SessionHandler {
	if workflowService == nil {
		panic("workflowService cannot be nil for SessionHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for SessionHandler")
	}

	return &SessionHandler{
		workflowService: workflowService,
		logger:          logger.With(slog.String("component", "session_handler")),
	}
}

// StartSession handles POST /sessions requests.
func (h *SessionHandler) StartSession(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	created, err := h.workflowService.StartSession(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("session started via API",
		slog.String("owner_id", ownerID.String()),
		slog.String("session_id", created.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, h.sessionToResponse(created))
}

// GetActiveSession handles GET /sessions/active requests. When the owner has
// no active session the response still succeeds, carrying an empty overview.
func (h *SessionHandler) GetActiveSession(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	active, err := h.workflowService.GetActiveSession(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if active == nil {
		shared.RespondWithJSON(w, r, http.StatusOK, SessionResponse{
			Overview: session.Project(nil, h.workflowService.Stages(), time.Now().UTC()),
			Stages:   h.workflowService.Stages().Stages(),
		})
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, h.sessionToResponse(active))
}

// UpdateStage handles PATCH /sessions/stage requests.
func (h *SessionHandler) UpdateStage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req UpdateStageRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	updated, err := h.workflowService.UpdateSessionStage(r.Context(), ownerID, req.StageID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("session stage updated via API",
		slog.String("owner_id", ownerID.String()),
		slog.String("stage", req.StageID))
	shared.RespondWithJSON(w, r, http.StatusOK, h.sessionToResponse(updated))
}

// CompleteSession handles POST /sessions/complete requests.
func (h *SessionHandler) CompleteSession(w http.ResponseWriter, r *http.Request) {
	h.closeSession(w, r, h.workflowService.CompleteSession)
}

// AbandonSession handles POST /sessions/abandon requests.
func (h *SessionHandler) AbandonSession(w http.ResponseWriter, r *http.Request) {
	h.closeSession(w, r, h.workflowService.AbandonSession)
}

// Heartbeat handles POST /sessions/heartbeat requests.
func (h *SessionHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if err := h.workflowService.Heartbeat(r.Context(), ownerID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// closeSession is the shared body of complete and abandon: both move the
// active session to a terminal status and return its final state.
func (h *SessionHandler) closeSession(
	w http.ResponseWriter,
	r *http.Request,
	close func(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error),
) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	closed, err := close(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("session closed via API",
		slog.String("owner_id", ownerID.String()),
		slog.String("session_id", closed.ID.String()),
		slog.String("status", string(closed.Status)))
	shared.RespondWithJSON(w, r, http.StatusOK, h.sessionToResponse(closed))
}

// sessionToResponse transforms a session into its response shape, including
// the derived overview and the static stage graph for client rendering.
func (h *SessionHandler) sessionToResponse(s *domain.WorkflowSession) SessionResponse {
	stages := h.workflowService.Stages()
	return SessionResponse{
		ID:             s.ID.String(),
		CurrentStageID: s.CurrentStageID,
		Status:         string(s.Status),
		StartedAt:      s.StartedAt,
		StageHistory:   s.StageHistory,
		Overview:       session.Project(s, stages, time.Now().UTC()),
		Stages:         stages.Stages(),
	}
}
