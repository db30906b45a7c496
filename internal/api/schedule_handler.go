package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/planner"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service/schedule"
)

// FocusItemPayload is the wire shape of one subject's focus configuration,
// used for both requests and responses.
type FocusItemPayload struct {
	Subject           string  `json:"subject"             validate:"required"`
	TargetWeeklyHours float64 `json:"target_weekly_hours" validate:"min=0"`
	PreferredStart    string  `json:"preferred_start,omitempty" validate:"omitempty,len=5"`
}

// ReplaceFocusRequest represents the request body for PUT /focus.
type ReplaceFocusRequest struct {
	Items []FocusItemPayload `json:"items" validate:"dive"`
}

// ExamPayload is the wire shape of one exam entry.
type ExamPayload struct {
	Subject  string `json:"subject"   validate:"required"`
	ExamDate string `json:"exam_date" validate:"required,datetime=2006-01-02"`
}

// ReplaceExamsRequest represents the request body for PUT /exams.
type ReplaceExamsRequest struct {
	Exams []ExamPayload `json:"exams" validate:"dive"`
}

// ScheduleHandler handles weekly schedule and focus configuration requests.
type ScheduleHandler struct {
	scheduleService schedule.ScheduleService
	logger          *slog.Logger
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(scheduleService schedule.ScheduleService, logger *slog.Logger) *ScheduleHandler {
	if scheduleService == nil {
		panic("scheduleService cannot be nil for ScheduleHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for ScheduleHandler")
	}

	return &ScheduleHandler{
		scheduleService: scheduleService,
		logger:          logger.With(slog.String("component", "schedule_handler")),
	}
}

// GetWeeklySchedule handles GET /schedule/week requests. The optional week
// query parameter selects an ISO week of the current year; it defaults to
// the current week.
func (h *ScheduleHandler) GetWeeklySchedule(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	weekNumber := planner.CurrentWeekNumber(time.Now().UTC())
	if rawWeek := r.URL.Query().Get("week"); rawWeek != "" {
		parsed, err := strconv.Atoi(rawWeek)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Week must be an integer")
			return
		}
		weekNumber = parsed
	}

	weekly, err := h.scheduleService.GenerateWeeklySchedule(r.Context(), ownerID, weekNumber)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("weekly schedule served",
		slog.String("owner_id", ownerID.String()),
		slog.Int("week_number", weekNumber))
	shared.RespondWithJSON(w, r, http.StatusOK, weekly)
}

// GetFocusItems handles GET /focus requests.
func (h *ScheduleHandler) GetFocusItems(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	items, err := h.scheduleService.GetFocusItems(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	payload := make([]FocusItemPayload, 0, len(items))
	for _, item := range items {
		payload = append(payload, FocusItemPayload{
			Subject:           item.Subject,
			TargetWeeklyHours: item.TargetWeeklyHours,
			PreferredStart:    item.PreferredStart,
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReplaceFocusRequest{Items: payload})
}

// ReplaceFocusItems handles PUT /focus requests, replacing the owner's
// focus configuration wholesale.
func (h *ScheduleHandler) ReplaceFocusItems(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ReplaceFocusRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	items := make([]domain.FocusItem, 0, len(req.Items))
	for _, payload := range req.Items {
		items = append(items, domain.FocusItem{
			Subject:           payload.Subject,
			TargetWeeklyHours: payload.TargetWeeklyHours,
			PreferredStart:    payload.PreferredStart,
		})
	}

	if err := h.scheduleService.ReplaceFocusItems(r.Context(), ownerID, items); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("focus configuration updated",
		slog.String("owner_id", ownerID.String()),
		slog.Int("subjects", len(items)))
	w.WriteHeader(http.StatusNoContent)
}

// GetExams handles GET /exams requests.
func (h *ScheduleHandler) GetExams(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	exams, err := h.scheduleService.GetExams(r.Context(), ownerID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	payload := make([]ExamPayload, 0, len(exams))
	for _, exam := range exams {
		payload = append(payload, ExamPayload{
			Subject:  exam.Subject,
			ExamDate: exam.ExamDate.Format("2006-01-02"),
		})
	}

	shared.RespondWithJSON(w, r, http.StatusOK, ReplaceExamsRequest{Exams: payload})
}

// ReplaceExams handles PUT /exams requests, replacing the owner's exam list
// wholesale.
func (h *ScheduleHandler) ReplaceExams(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req ReplaceExamsRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	exams := make([]domain.Exam, 0, len(req.Exams))
	for _, payload := range req.Exams {
		examDate, err := time.Parse("2006-01-02", payload.ExamDate)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Exam dates must be YYYY-MM-DD")
			return
		}
		exams = append(exams, domain.Exam{Subject: payload.Subject, ExamDate: examDate})
	}

	if err := h.scheduleService.ReplaceExams(r.Context(), ownerID, exams); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Info("exam list updated",
		slog.String("owner_id", ownerID.String()),
		slog.Int("exams", len(exams)))
	w.WriteHeader(http.StatusNoContent)
}
