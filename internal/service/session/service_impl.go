package session

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
var _ WorkflowService = (*workflowServiceImpl)(nil)

// workflowServiceImpl implements the WorkflowService interface.
type workflowServiceImpl struct {
	sessions store.SessionStore
	stages   *StageConfig
	logger   *slog.Logger
	now      func() time.Time
}

// NewWorkflowService creates a new WorkflowService backed by the given
// session store and stage configuration.
func NewWorkflowService(
	sessions store.SessionStore,
	stages *StageConfig,
	logger *slog.Logger,
) WorkflowService {
	if sessions == nil {
		panic("sessions cannot be nil")
	}
	if stages == nil {
		panic("stages cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &workflowServiceImpl{
		sessions: sessions,
		stages:   stages,
		logger:   logger.With(slog.String("component", "workflow_service")),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Stages implements WorkflowService.Stages.
func (s *workflowServiceImpl) Stages() *StageConfig {
	return s.stages
}

// StartSession implements WorkflowService.StartSession.
func (s *workflowServiceImpl) StartSession(
	ctx context.Context,
	ownerID uuid.UUID,
) (*domain.WorkflowSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	existing, err := s.GetActiveSession(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		log.Debug("session start rejected, one already active",
			slog.String("owner_id", ownerID.String()),
			slog.String("session_id", existing.ID.String()))
		return nil, ErrAlreadyActive
	}

	session, err := domain.NewWorkflowSession(ownerID, s.stages.Initial().ID)
	if err != nil {
		return nil, fmt.Errorf("failed to build session: %w", err)
	}

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save new session",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info("session started",
		slog.String("session_id", session.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("stage", session.CurrentStageID))
	return session, nil
}

// GetActiveSession implements WorkflowService.GetActiveSession. A missing
// session yields (nil, nil), never an error.
func (s *workflowServiceImpl) GetActiveSession(
	ctx context.Context,
	ownerID uuid.UUID,
) (*domain.WorkflowSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.sessions.GetActive(ctx, ownerID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return nil, nil
		}
		log.Error("failed to get active session",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, fmt.Errorf("failed to get active session: %w", err)
	}

	return session, nil
}

// UpdateSessionStage implements WorkflowService.UpdateSessionStage. On a
// rejected transition the persisted session is left untouched.
func (s *workflowServiceImpl) UpdateSessionStage(
	ctx context.Context,
	ownerID uuid.UUID,
	targetStageID string,
) (*domain.WorkflowSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.requireActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	if _, ok := s.stages.Get(targetStageID); !ok {
		log.Warn("unknown stage requested",
			slog.String("owner_id", ownerID.String()),
			slog.String("target_stage", targetStageID))
		return nil, ErrUnknownStage
	}

	current, ok := s.stages.Get(session.CurrentStageID)
	if !ok {
		// A session can only hold stages from the config it was created
		// with; reaching this means the config changed underneath it.
		return nil, fmt.Errorf("%w: session stage %q", ErrUnknownStage, session.CurrentStageID)
	}

	if !current.Allows(targetStageID) {
		log.Debug("stage transition rejected",
			slog.String("owner_id", ownerID.String()),
			slog.String("from", session.CurrentStageID),
			slog.String("to", targetStageID))
		return nil, ErrInvalidTransition
	}

	now := s.now()
	session.CurrentStageID = targetStageID
	session.StageHistory = append(session.StageHistory, domain.StageVisit{
		StageID:   targetStageID,
		EnteredAt: now,
	})
	session.UpdatedAt = now

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to save stage transition",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return nil, fmt.Errorf("failed to save session: %w", err)
	}

	log.Info("session stage updated",
		slog.String("session_id", session.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("stage", targetStageID))
	return session, nil
}

// CompleteSession implements WorkflowService.CompleteSession.
func (s *workflowServiceImpl) CompleteSession(
	ctx context.Context,
	ownerID uuid.UUID,
) (*domain.WorkflowSession, error) {
	return s.close(ctx, ownerID, domain.SessionStatusCompleted)
}

// AbandonSession implements WorkflowService.AbandonSession.
func (s *workflowServiceImpl) AbandonSession(
	ctx context.Context,
	ownerID uuid.UUID,
) (*domain.WorkflowSession, error) {
	return s.close(ctx, ownerID, domain.SessionStatusAbandoned)
}

// Heartbeat implements WorkflowService.Heartbeat. Failures degrade to "the
// session may be considered expired" and are surfaced but never escalate.
func (s *workflowServiceImpl) Heartbeat(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.GetActiveSession(ctx, ownerID)
	if err != nil {
		return err
	}
	if session == nil {
		return ErrNoActiveSession
	}

	session.LastSeenAt = s.now()
	session.UpdatedAt = session.LastSeenAt

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Warn("heartbeat save failed",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return fmt.Errorf("failed to save heartbeat: %w", err)
	}

	return nil
}

// requireActive fetches the active session or fails with ErrNoActiveSession.
func (s *workflowServiceImpl) requireActive(
	ctx context.Context,
	ownerID uuid.UUID,
) (*domain.WorkflowSession, error) {
	session, err := s.GetActiveSession(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoActiveSession
	}
	return session, nil
}

// close transitions the active session to a terminal status.
func (s *workflowServiceImpl) close(
	ctx context.Context,
	ownerID uuid.UUID,
	status domain.SessionStatus,
) (*domain.WorkflowSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	session, err := s.requireActive(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	session.Status = status
	session.UpdatedAt = s.now()

	if err := s.sessions.Save(ctx, session); err != nil {
		log.Error("failed to close session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("status", string(status)))
		return nil, fmt.Errorf("failed to close session: %w", err)
	}

	log.Info("session closed",
		slog.String("session_id", session.ID.String()),
		slog.String("owner_id", ownerID.String()),
		slog.String("status", string(status)))
	return session, nil
}
