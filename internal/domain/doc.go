// Package domain contains the core entity of the application, the Task, and
// the errors shared by every layer that handles it. It has no dependencies on
// storage or transport.
package domain
