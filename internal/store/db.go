package store

import (
	"context"
	"database/sql"
)

// DBTX is the subset of *sql.DB used by the SQL task stores. Keeping it an
// interface lets tests substitute a sqlmock connection.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}
