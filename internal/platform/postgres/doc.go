// Package postgres provides the PostgreSQL implementation of store.TaskStore.
// It handles connection settings (DSN, TLS mode, pool sizing), query
// execution through the pgx database/sql driver, and mapping of PostgreSQL
// errors to store errors.
package postgres
