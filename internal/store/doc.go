// Package store defines interfaces for data persistence operations.
// These interfaces abstract the underlying data storage mechanism from
// the application's core logic, so the service layer works the same against
// PostgreSQL in production and SQLite for local runs and tests.
package store
