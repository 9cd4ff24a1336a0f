// Package middleware provides HTTP middleware for the task API: trace IDs
// with a request-scoped logger, request metrics, and request logging.
package middleware
