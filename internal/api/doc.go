// Package api provides HTTP handlers for the study orchestration API: card
// reviews, weekly schedule generation, guided session workflow, and timer
// snapshot recovery. Handlers translate between the HTTP surface and the
// service layer; they hold no business logic of their own.
package api
