package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/store"
)

// PostgresPlannerStore implements the store.PlannerStore interface
// using a PostgreSQL database as the storage backend. It holds a *sql.DB
// rather than a DBTX because the replace operations manage their own
// transactions.
type PostgresPlannerStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewPostgresPlannerStore creates a new PostgreSQL implementation of the
// PlannerStore interface.
// If logger is nil, a default logger will be used.
func NewPostgresPlannerStore(db *sql.DB, logger *slog.Logger) *PostgresPlannerStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresPlannerStore{
		db:     db,
		logger: logger.With(slog.String("component", "planner_store")),
	}
}

// Ensure PostgresPlannerStore implements store.PlannerStore interface
var _ store.PlannerStore = (*PostgresPlannerStore)(nil)

// GetFocusItems implements store.PlannerStore.GetFocusItems
func (s *PostgresPlannerStore) GetFocusItems(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]domain.FocusItem, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT subject, target_weekly_hours, COALESCE(preferred_start, '')
		FROM focus_items
		WHERE owner_id = $1
		ORDER BY subject ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query focus items",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	items := []domain.FocusItem{}
	for rows.Next() {
		var item domain.FocusItem
		if err := rows.Scan(&item.Subject, &item.TargetWeeklyHours, &item.PreferredStart); err != nil {
			log.Error("failed to scan focus item row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return items, nil
}

// ReplaceFocusItems implements store.PlannerStore.ReplaceFocusItems
// The delete and inserts run in one transaction so a failed replace never
// leaves a partial configuration behind.
func (s *PostgresPlannerStore) ReplaceFocusItems(
	ctx context.Context,
	ownerID uuid.UUID,
	items []domain.FocusItem,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i := range items {
		if err := items[i].Validate(); err != nil {
			log.Warn("focus item validation failed during replace",
				slog.String("error", err.Error()),
				slog.String("subject", items[i].Subject))
			return err
		}
	}

	return s.replace(ctx, ownerID, "focus_items", func(tx *sql.Tx) error {
		query := `
			INSERT INTO focus_items (owner_id, subject, target_weekly_hours, preferred_start)
			VALUES ($1, $2, $3, NULLIF($4, ''))
		`
		for _, item := range items {
			if _, err := tx.ExecContext(ctx, query,
				ownerID, item.Subject, item.TargetWeeklyHours, item.PreferredStart,
			); err != nil {
				return err
			}
		}
		return nil
	})
}

// GetExams implements store.PlannerStore.GetExams
func (s *PostgresPlannerStore) GetExams(
	ctx context.Context,
	ownerID uuid.UUID,
) ([]domain.Exam, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT subject, exam_date
		FROM exams
		WHERE owner_id = $1
		ORDER BY exam_date ASC, subject ASC
	`

	rows, err := s.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		log.Error("failed to query exams",
			slog.String("error", err.Error()),
			slog.String("owner_id", ownerID.String()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	exams := []domain.Exam{}
	for rows.Next() {
		var exam domain.Exam
		if err := rows.Scan(&exam.Subject, &exam.ExamDate); err != nil {
			log.Error("failed to scan exam row", slog.String("error", err.Error()))
			return nil, MapError(err)
		}
		exams = append(exams, exam)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	return exams, nil
}

// ReplaceExams implements store.PlannerStore.ReplaceExams
func (s *PostgresPlannerStore) ReplaceExams(
	ctx context.Context,
	ownerID uuid.UUID,
	exams []domain.Exam,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	for i := range exams {
		if err := exams[i].Validate(); err != nil {
			log.Warn("exam validation failed during replace",
				slog.String("error", err.Error()),
				slog.String("subject", exams[i].Subject))
			return err
		}
	}

	return s.replace(ctx, ownerID, "exams", func(tx *sql.Tx) error {
		query := `
			INSERT INTO exams (owner_id, subject, exam_date)
			VALUES ($1, $2, $3)
		`
		for _, exam := range exams {
			if _, err := tx.ExecContext(ctx, query, ownerID, exam.Subject, exam.ExamDate); err != nil {
				return err
			}
		}
		return nil
	})
}

// replace clears the owner's rows in the named table and runs the insert
// callback inside one transaction.
func (s *PostgresPlannerStore) replace(
	ctx context.Context,
	ownerID uuid.UUID,
	table string,
	insert func(tx *sql.Tx) error,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return MapError(err)
	}

	// table is one of two compile-time constants, never user input.
	if _, err := tx.ExecContext(ctx, fmt.Sprintf("DELETE FROM %s WHERE owner_id = $1", table), ownerID); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback failed", slog.String("error", rbErr.Error()))
		}
		return MapError(err)
	}

	if err := insert(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			log.Error("rollback failed", slog.String("error", rbErr.Error()))
		}
		return MapError(err)
	}

	if err := tx.Commit(); err != nil {
		return MapError(err)
	}

	log.Info("replaced planner configuration",
		slog.String("owner_id", ownerID.String()),
		slog.String("table", table))
	return nil
}
