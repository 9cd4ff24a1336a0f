// Package sqlite provides an embedded store.TaskStore backed by
// modernc.org/sqlite. It is used for local runs without PostgreSQL and for
// end-to-end tests of the HTTP gateway.
package sqlite
