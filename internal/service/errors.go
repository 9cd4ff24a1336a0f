package service

import "errors"

// Common service errors - sentinel errors used across service implementations.
// Callers check them with errors.Is(); the API layer maps them to HTTP status codes.
var (
	// ErrTaskNotFound indicates that no task exists with the requested ID.
	// The API layer maps this to a null body or to 404, depending on configuration.
	ErrTaskNotFound = errors.New("task not found")
)
