package store

import (
	"context"
	"database/sql"
)

// DBTX abstracts the querying surface shared by *sql.DB and *sql.Tx, so a
// store can run against a pooled connection or inside a transaction without
// knowing which it was handed.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
