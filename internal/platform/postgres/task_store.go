package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/phrazzld/tasks-api/internal/platform/pool"
	"github.com/phrazzld/tasks-api/internal/store"
)

const (
	listTasksQuery = `
		SELECT id, title, completed
		FROM tasks
		ORDER BY id DESC
	`

	createTaskQuery = `
		INSERT INTO tasks (title, completed)
		VALUES ($1, $2)
		RETURNING id, title, completed
	`

	setCompletedQuery = `
		UPDATE tasks
		SET completed = $1
		WHERE id = $2
		RETURNING id, title, completed
	`

	deleteTaskQuery = `DELETE FROM tasks WHERE id = $1`
)

// PostgresTaskStore implements store.TaskStore using PostgreSQL.
type PostgresTaskStore struct {
	db   store.DBTX
	gate *pool.Gate
}

// Compile-time check to ensure PostgresTaskStore implements store.TaskStore
var _ store.TaskStore = (*PostgresTaskStore)(nil)

// NewPostgresTaskStore creates a new PostgresTaskStore. Every operation first
// takes a slot from gate.
func NewPostgresTaskStore(db store.DBTX, gate *pool.Gate) *PostgresTaskStore {
	if db == nil || gate == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("db and gate cannot be nil for PostgresTaskStore")
	}
	return &PostgresTaskStore{
		db:   db,
		gate: gate,
	}
}

// List retrieves all tasks, newest first.
func (s *PostgresTaskStore) List(ctx context.Context) ([]domain.Task, error) {
	log := logger.FromContext(ctx)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		log.Warn("no database connection available", "operation", "list", "error", err)
		return nil, err
	}
	defer release()

	rows, err := s.db.QueryContext(ctx, listTasksQuery)
	if err != nil {
		log.Error("failed to query tasks", "error", err)
		return nil, store.NewStoreError("task", "list", "failed to query tasks", MapError(err))
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			log.Error("failed to scan task row", "error", err)
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}

	if err := rows.Err(); err != nil {
		log.Error("error iterating task rows", "error", err)
		return nil, store.NewStoreError("task", "list", "error iterating task rows", MapError(err))
	}

	return tasks, nil
}

// Create inserts a task with completed=false and returns the stored row.
func (s *PostgresTaskStore) Create(ctx context.Context, title string) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		log.Warn("no database connection available", "operation", "create", "error", err)
		return nil, err
	}
	defer release()

	pending := domain.NewTask(title)
	var t domain.Task
	err = s.db.QueryRowContext(ctx, createTaskQuery, pending.Title, pending.Completed).
		Scan(&t.ID, &t.Title, &t.Completed)
	if err != nil {
		log.Error("failed to insert task", "error", err)
		return nil, store.NewStoreError("task", "create", "failed to insert task", MapError(err))
	}

	log.Debug("task created", "task_id", t.ID)
	return &t, nil
}

// SetCompleted updates the completed flag of one task.
func (s *PostgresTaskStore) SetCompleted(
	ctx context.Context,
	id int64,
	completed bool,
) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		log.Warn("no database connection available", "operation", "update", "error", err)
		return nil, err
	}
	defer release()

	var t domain.Task
	err = s.db.QueryRowContext(ctx, setCompletedQuery, completed, id).
		Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("no task found with ID to update", "task_id", id)
		return nil, fmt.Errorf("task %d: %w", id, store.ErrTaskNotFound)
	}
	if err != nil {
		log.Error("failed to update task", "task_id", id, "error", err)
		return nil, store.NewStoreError("task", "update", "failed to update task", MapError(err))
	}

	return &t, nil
}

// Delete removes a task. A missing ID is a no-op.
func (s *PostgresTaskStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContext(ctx)

	release, err := s.gate.Acquire(ctx)
	if err != nil {
		log.Warn("no database connection available", "operation", "delete", "error", err)
		return err
	}
	defer release()

	result, err := s.db.ExecContext(ctx, deleteTaskQuery, id)
	if err != nil {
		log.Error("failed to delete task", "task_id", id, "error", err)
		return store.NewStoreError("task", "delete", "failed to delete task", MapError(err))
	}

	if n, err := result.RowsAffected(); err == nil && n == 0 {
		log.Debug("no task found with ID to delete", "task_id", id)
	}
	return nil
}
