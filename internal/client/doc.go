// Package client is a typed HTTP client for the task API.
package client
