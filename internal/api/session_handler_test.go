package api_test

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop-api/internal/api"
	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/service/session"
)

// mockWorkflowService is a testify mock for session.WorkflowService.
type mockWorkflowService struct {
	mock.Mock
}

func (m *mockWorkflowService) StartSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowSession), args.Error(1)
}

func (m *mockWorkflowService) GetActiveSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowSession), args.Error(1)
}

func (m *mockWorkflowService) UpdateSessionStage(ctx context.Context, ownerID uuid.UUID, targetStageID string) (*domain.WorkflowSession, error) {
	args := m.Called(ctx, ownerID, targetStageID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowSession), args.Error(1)
}

func (m *mockWorkflowService) CompleteSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowSession), args.Error(1)
}

func (m *mockWorkflowService) AbandonSession(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowSession), args.Error(1)
}

func (m *mockWorkflowService) Heartbeat(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func (m *mockWorkflowService) Stages() *session.StageConfig {
	return session.DefaultStages()
}

// newAuthedRequest builds a request whose context carries the owner ID, as
// the auth middleware would set it.
func newAuthedRequest(method, target, body string, ownerID uuid.UUID) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return req.WithContext(shared.SetOwnerID(req.Context(), ownerID))
}

func testSession(ownerID uuid.UUID, stageID string) *domain.WorkflowSession {
	now := time.Now().UTC()
	return &domain.WorkflowSession{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		CurrentStageID: stageID,
		Status:         domain.SessionStatusActive,
		StartedAt:      now.Add(-20 * time.Minute),
		StageHistory:   []domain.StageVisit{{StageID: stageID, EnteredAt: now.Add(-20 * time.Minute)}},
		LastSeenAt:     now,
		UpdatedAt:      now,
	}
}

func TestStartSessionHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns 201 with the new session", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("StartSession", mock.Anything, ownerID).Return(testSession(ownerID, session.StagePrepare), nil)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPost, "/sessions", "", ownerID)
		rec := httptest.NewRecorder()

		handler.StartSession(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp api.SessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, session.StagePrepare, resp.CurrentStageID)
		assert.True(t, resp.Overview.HasActiveSession)
		assert.Len(t, resp.Stages, 5)
	})

	t.Run("returns 409 when a session is already active", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("StartSession", mock.Anything, ownerID).Return(nil, session.ErrAlreadyActive)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPost, "/sessions", "", ownerID)
		rec := httptest.NewRecorder()

		handler.StartSession(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("returns 401 without an authenticated owner", func(t *testing.T) {
		t.Parallel()

		svc := new(mockWorkflowService)
		handler := api.NewSessionHandler(svc, slog.Default())
		req := httptest.NewRequest(http.MethodPost, "/sessions", nil)
		rec := httptest.NewRecorder()

		handler.StartSession(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		svc.AssertNotCalled(t, "StartSession", mock.Anything, mock.Anything)
	})
}

func TestGetActiveSessionHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns an empty overview when nothing is active", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("GetActiveSession", mock.Anything, ownerID).Return(nil, nil)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodGet, "/sessions/active", "", ownerID)
		rec := httptest.NewRecorder()

		handler.GetActiveSession(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.SessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.False(t, resp.Overview.HasActiveSession)
		assert.Empty(t, resp.ID)
		assert.Len(t, resp.Stages, 5)
	})

	t.Run("returns the active session with its overview", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		active := testSession(ownerID, session.StageReview)
		svc := new(mockWorkflowService)
		svc.On("GetActiveSession", mock.Anything, ownerID).Return(active, nil)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodGet, "/sessions/active", "", ownerID)
		rec := httptest.NewRecorder()

		handler.GetActiveSession(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.SessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, active.ID.String(), resp.ID)
		assert.True(t, resp.Overview.HasActiveSession)
		assert.Equal(t, 20, resp.Overview.DurationMinutes)
	})
}

func TestUpdateStageHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns 200 on an allowed transition", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("UpdateSessionStage", mock.Anything, ownerID, session.StageReview).
			Return(testSession(ownerID, session.StageReview), nil)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPatch, "/sessions/stage", `{"stage_id":"review"}`, ownerID)
		rec := httptest.NewRecorder()

		handler.UpdateStage(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("returns 409 on a rejected transition", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("UpdateSessionStage", mock.Anything, ownerID, session.StageDone).
			Return(nil, session.ErrInvalidTransition)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPatch, "/sessions/stage", `{"stage_id":"done"}`, ownerID)
		rec := httptest.NewRecorder()

		handler.UpdateStage(rec, req)

		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("returns 400 on an unknown stage", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("UpdateSessionStage", mock.Anything, ownerID, "nap").
			Return(nil, session.ErrUnknownStage)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPatch, "/sessions/stage", `{"stage_id":"nap"}`, ownerID)
		rec := httptest.NewRecorder()

		handler.UpdateStage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 400 on a missing stage_id", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPatch, "/sessions/stage", `{}`, ownerID)
		rec := httptest.NewRecorder()

		handler.UpdateStage(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		svc.AssertNotCalled(t, "UpdateSessionStage", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCompleteSessionHandler(t *testing.T) {
	t.Parallel()

	t.Run("returns 404 without an active session", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		svc := new(mockWorkflowService)
		svc.On("CompleteSession", mock.Anything, ownerID).Return(nil, session.ErrNoActiveSession)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPost, "/sessions/complete", "", ownerID)
		rec := httptest.NewRecorder()

		handler.CompleteSession(rec, req)

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("returns the closed session", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		closed := testSession(ownerID, session.StageDone)
		closed.Status = domain.SessionStatusCompleted
		svc := new(mockWorkflowService)
		svc.On("CompleteSession", mock.Anything, ownerID).Return(closed, nil)

		handler := api.NewSessionHandler(svc, slog.Default())
		req := newAuthedRequest(http.MethodPost, "/sessions/complete", "", ownerID)
		rec := httptest.NewRecorder()

		handler.CompleteSession(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp api.SessionResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
		assert.Equal(t, string(domain.SessionStatusCompleted), resp.Status)
	})
}

func TestHeartbeatHandler(t *testing.T) {
	t.Parallel()

	ownerID := uuid.New()
	svc := new(mockWorkflowService)
	svc.On("Heartbeat", mock.Anything, ownerID).Return(nil)

	handler := api.NewSessionHandler(svc, slog.Default())
	req := newAuthedRequest(http.MethodPost, "/sessions/heartbeat", "", ownerID)
	rec := httptest.NewRecorder()

	handler.Heartbeat(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	svc.AssertExpectations(t)
}
