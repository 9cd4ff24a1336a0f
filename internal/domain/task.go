package domain

// Task is the single entity tracked by the application. The ID is assigned
// by the store on insert and never changes afterwards.
type Task struct {
	ID        int64  `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewTask returns an unsaved task with the given title. Any title is accepted,
// including the empty string.
func NewTask(title string) *Task {
	return &Task{
		Title:     title,
		Completed: false,
	}
}

// Toggled returns a copy of the task with Completed flipped.
func (t Task) Toggled() Task {
	t.Completed = !t.Completed
	return t
}
