// Package store defines interfaces for data persistence operations.
// These interfaces abstract the external storage collaborator from the
// orchestration core: sessions and timers are keyed by owner, cards by card
// ID, and every write is an idempotent upsert with last-write-wins
// semantics. Business rules never depend on the storage technology behind
// these interfaces.
package store
