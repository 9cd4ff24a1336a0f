package board

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"

	"github.com/phrazzld/tasks-api/internal/domain"
)

// Messages shown to the user.
const (
	MsgLoadFailed   = "Could not connect to backend."
	MsgCreateFailed = "Failed to add task"
)

// errNoMatch is used when the server answers an update with no task.
var errNoMatch = errors.New("update matched no task")

// SyncState tracks whether a task's local value agrees with the server.
type SyncState int

const (
	Confirmed SyncState = iota
	Pending
	Reverting
)

func (s SyncState) String() string {
	switch s {
	case Confirmed:
		return "confirmed"
	case Pending:
		return "pending"
	case Reverting:
		return "reverting"
	default:
		return "unknown"
	}
}

// TaskAPI is the subset of the HTTP client the board needs.
type TaskAPI interface {
	List(ctx context.Context) ([]domain.Task, error)
	Create(ctx context.Context, title string) (*domain.Task, error)
	Update(ctx context.Context, id int64, completed bool) (*domain.Task, error)
	Delete(ctx context.Context, id int64) error
}

// Item is one row of the board.
type Item struct {
	Task  domain.Task
	State SyncState
}

// View is an immutable snapshot of the board.
type View struct {
	Items   []Item
	Draft   string
	Loading bool
	Err     string
}

// Board is safe for concurrent use. API calls are made without holding the lock.
type Board struct {
	api    TaskAPI
	logger *slog.Logger

	mu          sync.Mutex
	items       []Item
	draft       string
	loading     bool
	err         string
	generations map[int64]uint64
}

// New creates an empty board.
func New(api TaskAPI, logger *slog.Logger) *Board {
	if logger == nil {
		logger = slog.Default()
	}
	return &Board{
		api:         api,
		logger:      logger.With("component", "board"),
		generations: make(map[int64]uint64),
	}
}

// Snapshot returns a copy of the current state.
func (b *Board) Snapshot() View {
	b.mu.Lock()
	defer b.mu.Unlock()

	items := make([]Item, len(b.items))
	copy(items, b.items)
	return View{
		Items:   items,
		Draft:   b.draft,
		Loading: b.loading,
		Err:     b.err,
	}
}

// SetDraft replaces the title being composed.
func (b *Board) SetDraft(draft string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.draft = draft
}

// Load replaces the list with the server's. On failure the list is left
// as it was and the error message is set.
func (b *Board) Load(ctx context.Context) error {
	b.mu.Lock()
	b.loading = true
	b.err = ""
	b.mu.Unlock()

	tasks, err := b.api.List(ctx)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.loading = false

	if err != nil {
		b.logger.Warn("failed to load tasks", "error", err)
		b.err = MsgLoadFailed
		return err
	}

	b.items = make([]Item, len(tasks))
	for i, t := range tasks {
		b.items[i] = Item{Task: t, State: Confirmed}
	}
	b.err = ""
	return nil
}

// Create submits the draft. Blank drafts are ignored. On success the new task
// goes to the top of the list and the draft is cleared; on failure the draft
// is kept.
func (b *Board) Create(ctx context.Context) error {
	b.mu.Lock()
	title := b.draft
	b.mu.Unlock()

	if strings.TrimSpace(title) == "" {
		return nil
	}

	task, err := b.api.Create(ctx, title)

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.logger.Warn("failed to create task", "error", err)
		b.err = MsgCreateFailed
		return err
	}

	b.items = append([]Item{{Task: *task, State: Confirmed}}, b.items...)
	b.draft = ""
	b.err = ""
	return nil
}

// Toggle flips a task's completed flag locally, then asks the server to do
// the same. A failure triggers a full reload. Unknown IDs are ignored.
func (b *Board) Toggle(ctx context.Context, id int64) error {
	b.mu.Lock()
	idx := b.indexOf(id)
	if idx < 0 {
		b.mu.Unlock()
		return nil
	}
	b.items[idx].Task = b.items[idx].Task.Toggled()
	b.items[idx].State = Pending
	want := b.items[idx].Task.Completed
	b.generations[id]++
	gen := b.generations[id]
	b.mu.Unlock()

	task, err := b.api.Update(ctx, id, want)
	if err == nil && task == nil {
		err = errNoMatch
	}

	b.mu.Lock()
	if b.generations[id] != gen {
		b.mu.Unlock()
		b.logger.Debug("dropping superseded toggle response", "task_id", id, "generation", gen)
		return nil
	}

	idx = b.indexOf(id)
	if err == nil {
		if idx >= 0 {
			b.items[idx] = Item{Task: *task, State: Confirmed}
		}
		b.mu.Unlock()
		return nil
	}

	b.logger.Warn("toggle failed, reloading", "task_id", id, "error", err)
	if idx >= 0 {
		b.items[idx].State = Reverting
	}
	b.mu.Unlock()

	if loadErr := b.Load(ctx); loadErr != nil {
		b.revert(id, gen)
	}
	return err
}

// revert undoes the optimistic flip when the reload could not restore the
// server's value, unless a newer toggle has taken over.
func (b *Board) revert(id int64, gen uint64) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.generations[id] != gen {
		return
	}
	if idx := b.indexOf(id); idx >= 0 && b.items[idx].State == Reverting {
		b.items[idx] = Item{Task: b.items[idx].Task.Toggled(), State: Confirmed}
	}
}

// Delete removes a task once the server confirms. Failures are logged only;
// the row stays and no message is shown.
func (b *Board) Delete(ctx context.Context, id int64) {
	if err := b.api.Delete(ctx, id); err != nil {
		b.logger.Warn("failed to delete task", "task_id", id, "error", err)
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if idx := b.indexOf(id); idx >= 0 {
		b.items = append(b.items[:idx], b.items[idx+1:]...)
	}
	delete(b.generations, id)
}

// indexOf must be called with b.mu held.
func (b *Board) indexOf(id int64) int {
	for i := range b.items {
		if b.items[i].Task.ID == id {
			return i
		}
	}
	return -1
}
