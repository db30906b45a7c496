package main

import (
	"database/sql"
	"log/slog"

	"github.com/studyloop/studyloop-api/internal/config"
	"github.com/studyloop/studyloop-api/internal/domain/srs"
	"github.com/studyloop/studyloop-api/internal/platform/postgres"
	"github.com/studyloop/studyloop-api/internal/service/auth"
	"github.com/studyloop/studyloop-api/internal/service/review"
	"github.com/studyloop/studyloop-api/internal/service/schedule"
	"github.com/studyloop/studyloop-api/internal/service/session"
	"github.com/studyloop/studyloop-api/internal/service/timer"
)

// application holds the wired dependencies of a running server: config, the
// shared database handle, and the service layer built on top of it.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtVerifier     auth.JWTVerifier
	reviewService   review.ReviewService
	scheduleService schedule.ScheduleService
	workflowService session.WorkflowService
	timerService    timer.TimerService
}

// newApplication wires stores and services against the given database
// connection.
func newApplication(cfg *config.Config, logger *slog.Logger, db *sql.DB) *application {
	cardStore := postgres.NewPostgresCardStore(db, logger)
	plannerStore := postgres.NewPostgresPlannerStore(db, logger)
	sessionStore := postgres.NewPostgresSessionStore(db, logger)
	timerStore := postgres.NewPostgresTimerStore(db, logger)

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		jwtVerifier:     auth.NewHS256Verifier(cfg.Auth.JWTSecret),
		reviewService:   review.NewReviewService(cardStore, srs.NewDefaultService(), logger),
		scheduleService: schedule.NewScheduleService(plannerStore, logger),
		workflowService: session.NewWorkflowService(sessionStore, session.DefaultStages(), logger),
		timerService:    timer.NewTimerService(timerStore, logger),
	}
}

// cleanup releases resources held by the application.
func (app *application) cleanup() {
	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
