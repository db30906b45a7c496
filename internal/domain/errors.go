// Package domain defines the core business entities and errors.
package domain

import "errors"

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrInvalidQuality is returned when a review quality rating is outside [0,5].
	ErrInvalidQuality = errors.New("review quality must be between 0 and 5")

	// ErrNegativeHours is returned when a focus item carries negative weekly hours.
	ErrNegativeHours = errors.New("target weekly hours cannot be negative")

	// ErrInvalidExamDate is returned when an exam date is missing or malformed.
	ErrInvalidExamDate = errors.New("invalid exam date")

	// ErrInvalidStage is returned when a workflow stage ID is not part of the
	// configured stage set.
	ErrInvalidStage = errors.New("invalid workflow stage")

	// ErrInvalidTimerMode is returned when a timer snapshot carries a mode
	// other than focus or break.
	ErrInvalidTimerMode = errors.New("invalid timer mode")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)
