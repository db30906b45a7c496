package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// PostgresSessionStore implements the store.SessionStore interface
// using a PostgreSQL database as the storage backend. The table keys rows by
// owner ID, so saving is a plain upsert and the "one active session per
// owner" rule holds without locks.
type PostgresSessionStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSessionStore creates a new PostgreSQL implementation of the
// SessionStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresSessionStore(db store.DBTX, logger *slog.Logger) *PostgresSessionStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSessionStore{
		db:     db,
		logger: logger.With(slog.String("component", "session_store")),
	}
}

// Ensure PostgresSessionStore implements store.SessionStore interface
var _ store.SessionStore = (*PostgresSessionStore)(nil)

// GetActive implements store.SessionStore.GetActive
// Returns store.ErrSessionNotFound if the owner has no active session.
func (s *PostgresSessionStore) GetActive(
	ctx context.Context,
	ownerID uuid.UUID,
) (*domain.WorkflowSession, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, owner_id, current_stage_id, status, started_at,
		       stage_history, last_seen_at, updated_at
		FROM workflow_sessions
		WHERE owner_id = $1 AND status = $2
	`

	var session domain.WorkflowSession
	var status string
	var history []byte

	err := s.db.QueryRowContext(ctx, query, ownerID, domain.SessionStatusActive).Scan(
		&session.ID,
		&session.OwnerID,
		&session.CurrentStageID,
		&status,
		&session.StartedAt,
		&history,
		&session.LastSeenAt,
		&session.UpdatedAt,
	)

	if err != nil {
		mapped := MapError(err)
		if errors.Is(mapped, store.ErrNotFound) {
			log.Debug("no active session", slog.String("owner_id", ownerID.String()))
			return nil, store.ErrSessionNotFound
		}
		log.Error("failed to get active session",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, mapped
	}

	session.Status = domain.SessionStatus(status)

	if err := json.Unmarshal(history, &session.StageHistory); err != nil {
		log.Error("failed to decode stage history",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return nil, err
	}

	return &session, nil
}

// Save implements store.SessionStore.Save
// It upserts the session keyed by owner ID; the last write wins.
func (s *PostgresSessionStore) Save(ctx context.Context, session *domain.WorkflowSession) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := session.Validate(); err != nil {
		log.Warn("session validation failed during save",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()))
		return err
	}

	history, err := json.Marshal(session.StageHistory)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO workflow_sessions (
			id, owner_id, current_stage_id, status, started_at,
			stage_history, last_seen_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (owner_id) DO UPDATE SET
			id               = EXCLUDED.id,
			current_stage_id = EXCLUDED.current_stage_id,
			status           = EXCLUDED.status,
			started_at       = EXCLUDED.started_at,
			stage_history    = EXCLUDED.stage_history,
			last_seen_at     = EXCLUDED.last_seen_at,
			updated_at       = EXCLUDED.updated_at
	`

	_, err = s.db.ExecContext(
		ctx,
		query,
		session.ID,
		session.OwnerID,
		session.CurrentStageID,
		session.Status,
		session.StartedAt,
		history,
		session.LastSeenAt,
		session.UpdatedAt,
	)

	if err != nil {
		log.Error("failed to save session",
			slog.String("error", err.Error()),
			slog.String("session_id", session.ID.String()),
			slog.String("owner_id", session.OwnerID.String()))
		return MapError(err)
	}

	log.Debug("session saved",
		slog.String("session_id", session.ID.String()),
		slog.String("owner_id", session.OwnerID.String()),
		slog.String("stage", session.CurrentStageID),
		slog.String("status", string(session.Status)))
	return nil
}

// Delete implements store.SessionStore.Delete
// Deleting a missing session is not an error.
func (s *PostgresSessionStore) Delete(ctx context.Context, ownerID uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM workflow_sessions WHERE owner_id = $1`

	if _, err := s.db.ExecContext(ctx, query, ownerID); err != nil {
		log.Error("failed to delete session",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return MapError(err)
	}

	log.Debug("session deleted", slog.String("owner_id", ownerID.String()))
	return nil
}
