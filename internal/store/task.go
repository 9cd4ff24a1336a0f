package store

import (
	"context"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// TaskStore defines the interface for task persistence. Every method is a
// single statement against the tasks table; none of them open a transaction.
type TaskStore interface {
	// List returns every task ordered by ID, newest first.
	// Returns an empty, non-nil slice when the table is empty.
	List(ctx context.Context) ([]domain.Task, error)

	// Create inserts a task with completed=false and returns the stored row,
	// including the ID assigned by the database.
	Create(ctx context.Context, title string) (*domain.Task, error)

	// SetCompleted updates the completed flag and returns the updated row.
	// Returns ErrTaskNotFound if no row has the given ID.
	SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error)

	// Delete removes the row with the given ID. Deleting a missing ID is not
	// an error.
	Delete(ctx context.Context, id int64) error
}
