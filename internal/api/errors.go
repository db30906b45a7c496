package api

import (
	"errors"
	"net/http"

	"github.com/studyloop/studyloop-api/internal/domain"
	"github.com/studyloop/studyloop-api/internal/domain/srs"
	"github.com/studyloop/studyloop-api/internal/service/review"
	"github.com/studyloop/studyloop-api/internal/service/schedule"
	"github.com/studyloop/studyloop-api/internal/service/session"
	"github.com/studyloop/studyloop-api/internal/service/timer"
	"github.com/studyloop/studyloop-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes based on
// the error type, so internal error details never drive the response
// directly.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authorization errors
	case errors.Is(err, review.ErrCardNotOwned),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, review.ErrCardNotFound),
		errors.Is(err, store.ErrCardNotFound),
		errors.Is(err, session.ErrNoActiveSession),
		errors.Is(err, timer.ErrNoSnapshot),
		errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, session.ErrAlreadyActive),
		errors.Is(err, session.ErrInvalidTransition),
		errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, review.ErrInvalidGrade),
		errors.Is(err, review.ErrEmptyCard),
		errors.Is(err, srs.ErrInvalidDays),
		errors.Is(err, session.ErrUnknownStage),
		errors.Is(err, schedule.ErrDuplicateSubject),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInvalidQuality),
		errors.Is(err, domain.ErrInvalidWeekNumber),
		errors.Is(err, domain.ErrInvalidID),
		errors.Is(err, store.ErrInvalidEntity):
		return http.StatusBadRequest

	// Storage outages surface as 503 so clients know to retry
	case errors.Is(err, store.ErrStorageUnavailable):
		return http.StatusServiceUnavailable

	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-facing message for the
// error. Raw error text never reaches clients.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, review.ErrCardNotOwned):
		return "You do not own this card"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Operation not permitted"

	case errors.Is(err, review.ErrCardNotFound), errors.Is(err, store.ErrCardNotFound):
		return "Card not found"

	case errors.Is(err, session.ErrNoActiveSession):
		return "No active session"

	case errors.Is(err, timer.ErrNoSnapshot):
		return "No timer state saved"

	case errors.Is(err, session.ErrAlreadyActive):
		return "A session is already in progress"

	case errors.Is(err, session.ErrInvalidTransition):
		return "Stage transition not allowed"

	case errors.Is(err, session.ErrUnknownStage):
		return "Unknown stage"

	case errors.Is(err, review.ErrInvalidGrade), errors.Is(err, domain.ErrInvalidQuality):
		return "Review quality must be between 0 and 5"

	case errors.Is(err, review.ErrEmptyCard):
		return "Card front content is required"

	case errors.Is(err, srs.ErrInvalidDays):
		return "Postpone days must be at least 1"

	case errors.Is(err, schedule.ErrDuplicateSubject):
		return "Subjects must be unique"

	case errors.Is(err, domain.ErrInvalidWeekNumber):
		return "Week number must be between 1 and 53"

	case errors.Is(err, domain.ErrInvalidID):
		return "Invalid ID format"

	case errors.Is(err, domain.ErrValidation), errors.Is(err, store.ErrInvalidEntity):
		return "Invalid request data"

	case errors.Is(err, store.ErrStorageUnavailable):
		return "Service temporarily unavailable"

	default:
		return "An unexpected error occurred"
	}
}
