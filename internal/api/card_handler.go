package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/studyloop/studyloop-api/internal/api/shared"
	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/platform/logger"
	"github.com/studyloop/studyloop-api/internal/service/review"
)

// CardResponse represents the response data for a review card.
type CardResponse struct {
	ID             string     `json:"id"`
	DeckID         string     `json:"deck_id"`
	FrontContent   string     `json:"front_content"`
	BackContent    string     `json:"back_content"`
	EaseFactor     float64    `json:"ease_factor"`
	IntervalDays   int        `json:"interval_days"`
	Repetitions    int        `json:"repetitions"`
	DueAt          time.Time  `json:"due_at"`
	LastReviewedAt *time.Time `json:"last_reviewed_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// CreateCardRequest represents the request body for creating a card.
type CreateCardRequest struct {
	DeckID       string `json:"deck_id"       validate:"required,uuid"`
	FrontContent string `json:"front_content" validate:"required"`
	BackContent  string `json:"back_content"`
}

// SubmitReviewRequest represents the request body for grading a review.
type SubmitReviewRequest struct {
	Quality int `json:"quality" validate:"min=0,max=5"`
}

// PostponeCardRequest represents the request body for postponing a card.
type PostponeCardRequest struct {
	Days int `json:"days" validate:"required,min=1"`
}

// CardHandler handles card and review HTTP requests.
type CardHandler struct {
	reviewService review.ReviewService
	logger        *slog.Logger
}

// NewCardHandler creates a new CardHandler.
func NewCardHandler(reviewService review.ReviewService, logger *slog.Logger) *CardHandler {
	if reviewService == nil {
		panic("reviewService cannot be nil for CardHandler")
	}
	if logger == nil {
		panic("logger cannot be nil for CardHandler")
	}

	return &CardHandler{
		reviewService: reviewService,
		logger:        logger.With(slog.String("component", "card_handler")),
	}
}

// CreateCard handles POST /cards requests.
func (h *CardHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req CreateCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	deckID, err := uuid.Parse(req.DeckID)
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid deck ID format")
		return
	}

	card, err := h.reviewService.CreateCard(r.Context(), ownerID, deckID, req.FrontContent, req.BackContent)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card created",
		slog.String("owner_id", ownerID.String()),
		slog.String("card_id", card.ID.String()))
	shared.RespondWithJSON(w, r, http.StatusCreated, cardToResponse(card))
}

// GetCard handles GET /cards/{id} requests.
func (h *CardHandler) GetCard(w http.ResponseWriter, r *http.Request) {
	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	card, err := h.reviewService.GetCard(r.Context(), ownerID, cardID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// ListDueCards handles GET /cards/due requests. The optional limit query
// parameter caps the number of cards returned.
func (h *CardHandler) ListDueCards(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	limit := 0
	if rawLimit := r.URL.Query().Get("limit"); rawLimit != "" {
		parsed, err := strconv.Atoi(rawLimit)
		if err != nil || parsed < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Limit must be a positive integer")
			return
		}
		limit = parsed
	}

	cards, err := h.reviewService.ListDueCards(r.Context(), ownerID, limit)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	responses := make([]CardResponse, 0, len(cards))
	for _, card := range cards {
		responses = append(responses, cardToResponse(card))
	}

	log.Debug("due cards listed",
		slog.String("owner_id", ownerID.String()),
		slog.Int("count", len(responses)))
	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// SubmitReview handles POST /cards/{id}/review requests. It applies the
// graded recall quality to the card's spaced repetition schedule.
func (h *CardHandler) SubmitReview(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	var req SubmitReviewRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	card, err := h.reviewService.SubmitReview(r.Context(), ownerID, cardID, review.ReviewGrade{Quality: req.Quality})
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("review submitted",
		slog.String("owner_id", ownerID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Int("quality", req.Quality),
		slog.Int("interval_days", card.IntervalDays))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// PostponeCard handles POST /cards/{id}/postpone requests. It pushes the
// card's due date forward without changing its scheduling state.
func (h *CardHandler) PostponeCard(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	ownerID, ok := getOwnerIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	cardID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	var req PostponeCardRequest
	if err := decodeAndValidate(r, &req); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusBadRequest, GetSafeErrorMessage(err), err)
		return
	}

	card, err := h.reviewService.PostponeCard(r.Context(), ownerID, cardID, req.Days)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	log.Debug("card postponed",
		slog.String("owner_id", ownerID.String()),
		slog.String("card_id", card.ID.String()),
		slog.Int("days", req.Days))
	shared.RespondWithJSON(w, r, http.StatusOK, cardToResponse(card))
}

// cardToResponse transforms a domain card into its response shape.
func cardToResponse(card *domain.ReviewCard) CardResponse {
	resp := CardResponse{
		ID:           card.ID.String(),
		DeckID:       card.DeckID.String(),
		FrontContent: card.FrontContent,
		BackContent:  card.BackContent,
		EaseFactor:   card.EaseFactor,
		IntervalDays: card.IntervalDays,
		Repetitions:  card.Repetitions,
		DueAt:        card.DueAt,
		CreatedAt:    card.CreatedAt,
	}

	if !card.LastReviewedAt.IsZero() {
		lastReviewed := card.LastReviewedAt
		resp.LastReviewedAt = &lastReviewed
	}

	return resp
}
