// Package cli implements the taskctl command tree on top of the board state
// model and the HTTP client.
package cli
