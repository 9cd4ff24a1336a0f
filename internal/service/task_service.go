package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/phrazzld/tasks-api/internal/platform/metrics"
	"github.com/phrazzld/tasks-api/internal/store"
)

// OperationRecorder counts successful task operations.
// *metrics.Registry satisfies it.
type OperationRecorder interface {
	RecordTaskOperation(operation string)
}

// TaskService provides task-related operations
type TaskService interface {
	// List returns all tasks, newest first
	List(ctx context.Context) ([]domain.Task, error)

	// Create stores a new incomplete task with the given title
	Create(ctx context.Context, title string) (*domain.Task, error)

	// Update sets the completed flag of one task.
	// Returns ErrTaskNotFound if no task has that ID.
	Update(ctx context.Context, id int64, completed bool) (*domain.Task, error)

	// Delete removes a task; deleting a missing task succeeds
	Delete(ctx context.Context, id int64) error
}

// TaskServiceError wraps errors from the task service with context.
type TaskServiceError struct {
	// Operation is the operation that failed (e.g., "create_task", "list_tasks")
	Operation string
	// Message is a human-readable description of the error
	Message string
	// Err is the underlying error that caused the failure
	Err error
}

// Error implements the error interface for TaskServiceError.
func (e *TaskServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("task service %s failed: %s: %v", e.Operation, e.Message, e.Err)
	}
	return fmt.Sprintf("task service %s failed: %s", e.Operation, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *TaskServiceError) Unwrap() error {
	return e.Err
}

// NewTaskServiceError creates a new TaskServiceError.
// It returns known sentinel errors directly without wrapping.
func NewTaskServiceError(operation, message string, err error) error {
	if err == nil {
		return nil
	}

	if errors.Is(err, ErrTaskNotFound) || errors.Is(err, store.ErrTaskNotFound) {
		return ErrTaskNotFound
	}

	return &TaskServiceError{
		Operation: operation,
		Message:   message,
		Err:       err,
	}
}

// taskServiceImpl implements the TaskService interface
type taskServiceImpl struct {
	tasks    store.TaskStore
	recorder OperationRecorder
	logger   *slog.Logger
}

// NewTaskService creates a new TaskService.
// It returns an error if any of the required dependencies are nil.
func NewTaskService(
	tasks store.TaskStore,
	recorder OperationRecorder,
	logger *slog.Logger,
) (TaskService, error) {
	if tasks == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "task store cannot be nil",
		}
	}
	if recorder == nil {
		return nil, &TaskServiceError{
			Operation: "create_service",
			Message:   "operation recorder cannot be nil",
		}
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &taskServiceImpl{
		tasks:    tasks,
		recorder: recorder,
		logger:   logger.With("component", "task_service"),
	}, nil
}

func (s *taskServiceImpl) List(ctx context.Context) ([]domain.Task, error) {
	tasks, err := s.tasks.List(ctx)
	if err != nil {
		return nil, NewTaskServiceError("list_tasks", "failed to list tasks", err)
	}
	return tasks, nil
}

// Create records the create operation only after the store accepted the row.
func (s *taskServiceImpl) Create(ctx context.Context, title string) (*domain.Task, error) {
	task, err := s.tasks.Create(ctx, title)
	if err != nil {
		return nil, NewTaskServiceError("create_task", "failed to save task", err)
	}

	s.recorder.RecordTaskOperation(metrics.OperationCreate)
	s.logger.Debug("task created", "task_id", task.ID)
	return task, nil
}

func (s *taskServiceImpl) Update(ctx context.Context, id int64, completed bool) (*domain.Task, error) {
	task, err := s.tasks.SetCompleted(ctx, id, completed)
	if err != nil {
		if errors.Is(err, store.ErrTaskNotFound) {
			s.logger.Debug("update matched no task", "task_id", id)
		}
		return nil, NewTaskServiceError("update_task", "failed to update task", err)
	}
	return task, nil
}

func (s *taskServiceImpl) Delete(ctx context.Context, id int64) error {
	if err := s.tasks.Delete(ctx, id); err != nil {
		return NewTaskServiceError("delete_task", "failed to delete task", err)
	}
	return nil
}
