package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/service/session"
	"github.com/studyloop/studyloop-api/internal/store"
)

// mockSessionStore is a testify mock for store.SessionStore.
type mockSessionStore struct {
	mock.Mock
}

func (m *mockSessionStore) GetActive(ctx context.Context, ownerID uuid.UUID) (*domain.WorkflowSession, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkflowSession), args.Error(1)
}

func (m *mockSessionStore) Save(ctx context.Context, s *domain.WorkflowSession) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *mockSessionStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	args := m.Called(ctx, ownerID)
	return args.Error(0)
}

func newService(t *testing.T, sessions store.SessionStore) session.WorkflowService {
	t.Helper()
	return session.NewWorkflowService(sessions, session.DefaultStages(), nil)
}

func activeSessionAt(ownerID uuid.UUID, stageID string) *domain.WorkflowSession {
	now := time.Now().UTC()
	return &domain.WorkflowSession{
		ID:             uuid.New(),
		OwnerID:        ownerID,
		CurrentStageID: stageID,
		Status:         domain.SessionStatusActive,
		StartedAt:      now.Add(-10 * time.Minute),
		StageHistory:   []domain.StageVisit{{StageID: stageID, EnteredAt: now.Add(-10 * time.Minute)}},
		LastSeenAt:     now,
		UpdatedAt:      now,
	}
}

func TestStartSession(t *testing.T) {
	t.Parallel()

	t.Run("creates a session at the initial stage", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(nil, store.ErrSessionNotFound)
		sessions.On("Save", mock.Anything, mock.AnythingOfType("*domain.WorkflowSession")).Return(nil)

		svc := newService(t, sessions)
		created, err := svc.StartSession(context.Background(), ownerID)

		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, ownerID, created.OwnerID)
		assert.Equal(t, session.StagePrepare, created.CurrentStageID)
		assert.Equal(t, domain.SessionStatusActive, created.Status)
		require.Len(t, created.StageHistory, 1)
		assert.Equal(t, session.StagePrepare, created.StageHistory[0].StageID)
		sessions.AssertExpectations(t)
	})

	t.Run("rejects a second concurrent session", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(activeSessionAt(ownerID, session.StageReview), nil)

		svc := newService(t, sessions)
		created, err := svc.StartSession(context.Background(), ownerID)

		assert.ErrorIs(t, err, session.ErrAlreadyActive)
		assert.Nil(t, created)
		sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func TestGetActiveSession(t *testing.T) {
	t.Parallel()

	t.Run("returns nil without error when none active", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(nil, store.ErrSessionNotFound)

		svc := newService(t, sessions)
		got, err := svc.GetActiveSession(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("propagates storage failures", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(nil, store.ErrStorageUnavailable)

		svc := newService(t, sessions)
		got, err := svc.GetActiveSession(context.Background(), ownerID)

		assert.ErrorIs(t, err, store.ErrStorageUnavailable)
		assert.Nil(t, got)
	})
}

func TestUpdateSessionStage(t *testing.T) {
	t.Parallel()

	t.Run("advances along the allowed path", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(activeSessionAt(ownerID, session.StagePrepare), nil)
		sessions.On("Save", mock.Anything, mock.AnythingOfType("*domain.WorkflowSession")).Return(nil)

		svc := newService(t, sessions)
		updated, err := svc.UpdateSessionStage(context.Background(), ownerID, session.StageReview)

		require.NoError(t, err)
		assert.Equal(t, session.StageReview, updated.CurrentStageID)
		require.Len(t, updated.StageHistory, 2)
		assert.Equal(t, session.StageReview, updated.StageHistory[1].StageID)
		sessions.AssertExpectations(t)
	})

	t.Run("rejects a skipped stage and leaves the session untouched", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		current := activeSessionAt(ownerID, session.StagePrepare)
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(current, nil)

		svc := newService(t, sessions)
		updated, err := svc.UpdateSessionStage(context.Background(), ownerID, session.StageReflect)

		assert.ErrorIs(t, err, session.ErrInvalidTransition)
		assert.Nil(t, updated)
		assert.Equal(t, session.StagePrepare, current.CurrentStageID)
		assert.Len(t, current.StageHistory, 1)
		sessions.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("rejects a stage that does not exist", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(activeSessionAt(ownerID, session.StagePrepare), nil)

		svc := newService(t, sessions)
		updated, err := svc.UpdateSessionStage(context.Background(), ownerID, "nap")

		assert.ErrorIs(t, err, session.ErrUnknownStage)
		assert.Nil(t, updated)
	})

	t.Run("requires an active session", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(nil, store.ErrSessionNotFound)

		svc := newService(t, sessions)
		updated, err := svc.UpdateSessionStage(context.Background(), ownerID, session.StageReview)

		assert.ErrorIs(t, err, session.ErrNoActiveSession)
		assert.Nil(t, updated)
	})

	t.Run("terminal stage allows no further transitions", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(activeSessionAt(ownerID, session.StageDone), nil)

		svc := newService(t, sessions)
		updated, err := svc.UpdateSessionStage(context.Background(), ownerID, session.StagePrepare)

		assert.ErrorIs(t, err, session.ErrInvalidTransition)
		assert.Nil(t, updated)
	})
}

func TestCompleteAndAbandonSession(t *testing.T) {
	t.Parallel()

	t.Run("complete marks the session completed", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(activeSessionAt(ownerID, session.StageReflect), nil)
		sessions.On("Save", mock.Anything, mock.AnythingOfType("*domain.WorkflowSession")).Return(nil)

		svc := newService(t, sessions)
		closed, err := svc.CompleteSession(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusCompleted, closed.Status)
		assert.False(t, closed.IsActive())
	})

	t.Run("abandon marks the session abandoned", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(activeSessionAt(ownerID, session.StagePractice), nil)
		sessions.On("Save", mock.Anything, mock.AnythingOfType("*domain.WorkflowSession")).Return(nil)

		svc := newService(t, sessions)
		closed, err := svc.AbandonSession(context.Background(), ownerID)

		require.NoError(t, err)
		assert.Equal(t, domain.SessionStatusAbandoned, closed.Status)
	})

	t.Run("complete without an active session fails", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(nil, store.ErrSessionNotFound)

		svc := newService(t, sessions)
		closed, err := svc.CompleteSession(context.Background(), ownerID)

		assert.ErrorIs(t, err, session.ErrNoActiveSession)
		assert.Nil(t, closed)
	})
}

func TestHeartbeat(t *testing.T) {
	t.Parallel()

	t.Run("refreshes LastSeenAt", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		active := activeSessionAt(ownerID, session.StageReview)
		active.LastSeenAt = time.Now().UTC().Add(-5 * time.Minute)
		before := active.LastSeenAt

		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(active, nil)
		sessions.On("Save", mock.Anything, mock.AnythingOfType("*domain.WorkflowSession")).Return(nil)

		svc := newService(t, sessions)
		err := svc.Heartbeat(context.Background(), ownerID)

		require.NoError(t, err)
		assert.True(t, active.LastSeenAt.After(before))
	})

	t.Run("fails without an active session", func(t *testing.T) {
		t.Parallel()

		ownerID := uuid.New()
		sessions := new(mockSessionStore)
		sessions.On("GetActive", mock.Anything, ownerID).Return(nil, store.ErrSessionNotFound)

		svc := newService(t, sessions)
		err := svc.Heartbeat(context.Background(), ownerID)

		assert.ErrorIs(t, err, session.ErrNoActiveSession)
	})
}

func TestProject(t *testing.T) {
	t.Parallel()

	stages := session.DefaultStages()
	now := time.Now().UTC()

	t.Run("no session yields an empty overview", func(t *testing.T) {
		t.Parallel()

		overview := session.Project(nil, stages, now)

		assert.False(t, overview.HasActiveSession)
		assert.Nil(t, overview.Stage)
		assert.Zero(t, overview.DurationMinutes)
		assert.Zero(t, overview.StagesVisited)
	})

	t.Run("active session reports stage and duration", func(t *testing.T) {
		t.Parallel()

		active := activeSessionAt(uuid.New(), session.StagePractice)
		active.StartedAt = now.Add(-25 * time.Minute)
		active.StageHistory = []domain.StageVisit{
			{StageID: session.StagePrepare, EnteredAt: now.Add(-25 * time.Minute)},
			{StageID: session.StageReview, EnteredAt: now.Add(-15 * time.Minute)},
			{StageID: session.StagePractice, EnteredAt: now.Add(-5 * time.Minute)},
		}

		overview := session.Project(active, stages, now)

		assert.True(t, overview.HasActiveSession)
		require.NotNil(t, overview.Stage)
		assert.Equal(t, session.StagePractice, overview.Stage.ID)
		assert.Equal(t, 25, overview.DurationMinutes)
		assert.Equal(t, 3, overview.StagesVisited)
	})
}
