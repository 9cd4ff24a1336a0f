package sqlite

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
	ORDER BY id DESC`

	createTaskQuery = `
	INSERT INTO tasks (title, completed)
	VALUES (?, ?)
	RETURNING id, title, completed`

	setCompletedQuery = `
	UPDATE tasks
	SET completed = ?
	WHERE id = ?
	RETURNING id, title, completed`

	deleteTaskQuery = `DELETE FROM tasks WHERE id = ?`
)

// TaskStore implements store.TaskStore on SQLite.
type TaskStore struct {
	db   store.DBTX
	gate *pool.Gate
}

var _ store.TaskStore = (*TaskStore)(nil)

// NewTaskStore creates a TaskStore.
func NewTaskStore(db store.DBTX, gate *pool.Gate) *TaskStore {
	if db == nil || gate == nil {
		// ALLOW-PANIC: Constructor enforcing required dependencies
		panic("db and gate cannot be nil for sqlite TaskStore")
	}
	return &TaskStore{db: db, gate: gate}
}

func (s *TaskStore) List(ctx context.Context) ([]domain.Task, error) {
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := s.db.QueryContext(ctx, listTasksQuery)
	if err != nil {
		logger.FromContext(ctx).Error("failed to query tasks", "error", err)
		return nil, store.NewStoreError("task", "list", "failed to query tasks", err)
	}
	defer func() { _ = rows.Close() }()

	tasks := make([]domain.Task, 0)
	for rows.Next() {
		var t domain.Task
		if err := rows.Scan(&t.ID, &t.Title, &t.Completed); err != nil {
			return nil, fmt.Errorf("failed to scan task row: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err := rows.Err(); err != nil {
		return nil, store.NewStoreError("task", "list", "error iterating task rows", err)
	}
	return tasks, nil
}

func (s *TaskStore) Create(ctx context.Context, title string) (*domain.Task, error) {
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	pending := domain.NewTask(title)
	var t domain.Task
	if err := s.db.QueryRowContext(ctx, createTaskQuery, pending.Title, pending.Completed).
		Scan(&t.ID, &t.Title, &t.Completed); err != nil {
		logger.FromContext(ctx).Error("failed to insert task", "error", err)
		return nil, store.NewStoreError("task", "create", "failed to insert task", err)
	}
	return &t, nil
}

func (s *TaskStore) SetCompleted(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer release()

	var t domain.Task
	err = s.db.QueryRowContext(ctx, setCompletedQuery, completed, id).
		Scan(&t.ID, &t.Title, &t.Completed)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("task %d: %w", id, store.ErrTaskNotFound)
	}
	if err != nil {
		logger.FromContext(ctx).Error("failed to update task", "task_id", id, "error", err)
		return nil, store.NewStoreError("task", "update", "failed to update task", err)
	}
	return &t, nil
}

func (s *TaskStore) Delete(ctx context.Context, id int64) error {
	release, err := s.gate.Acquire(ctx)
	if err != nil {
		return err
	}
	defer release()

	if _, err := s.db.ExecContext(ctx, deleteTaskQuery, id); err != nil {
		logger.FromContext(ctx).Error("failed to delete task", "task_id", id, "error", err)
		return store.NewStoreError("task", "delete", "failed to delete task", err)
	}
	return nil
}
