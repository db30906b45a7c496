// Package postgres provides PostgreSQL-backed implementations of the
// repositories defined in the internal/store package. All per-owner records
// (sessions, timer snapshots) are written with ON CONFLICT upserts so the
// last write wins without application-level locking.
package postgres
