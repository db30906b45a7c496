package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/studyloop/studyloop-api/internal/api"
	apiMiddleware "github.com/studyloop/studyloop-api/internal/api/middleware"
)

// setupRouter configures the application router with all routes and
// middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtVerifier)

	cardHandler := api.NewCardHandler(app.reviewService, app.logger)
	scheduleHandler := api.NewScheduleHandler(app.scheduleService, app.logger)
	sessionHandler := api.NewSessionHandler(app.workflowService, app.logger)
	timerHandler := api.NewTimerHandler(app.timerService, app.logger)

	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			// Flashcard review endpoints
			r.Post("/cards", cardHandler.CreateCard)
			r.Get("/cards/due", cardHandler.ListDueCards)
			r.Get("/cards/{id}", cardHandler.GetCard)
			r.Post("/cards/{id}/review", cardHandler.SubmitReview)
			r.Post("/cards/{id}/postpone", cardHandler.PostponeCard)

			// Weekly schedule endpoints
			r.Get("/schedule/week", scheduleHandler.GetWeeklySchedule)
			r.Get("/focus", scheduleHandler.GetFocusItems)
			r.Put("/focus", scheduleHandler.ReplaceFocusItems)
			r.Get("/exams", scheduleHandler.GetExams)
			r.Put("/exams", scheduleHandler.ReplaceExams)

			// Guided session endpoints
			r.Post("/sessions", sessionHandler.StartSession)
			r.Get("/sessions/active", sessionHandler.GetActiveSession)
			r.Patch("/sessions/stage", sessionHandler.UpdateStage)
			r.Post("/sessions/complete", sessionHandler.CompleteSession)
			r.Post("/sessions/abandon", sessionHandler.AbandonSession)
			r.Post("/sessions/heartbeat", sessionHandler.Heartbeat)

			// Timer snapshot endpoints
			r.Get("/timer", timerHandler.LoadTimerState)
			r.Put("/timer", timerHandler.SaveTimerState)
			r.Delete("/timer", timerHandler.ClearTimerState)
		})
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
