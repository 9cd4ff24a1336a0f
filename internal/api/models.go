package api

// CreateTaskRequest defines the payload for creating a task. Any title,
// including an empty one, is accepted.
type CreateTaskRequest struct {
	Title string `json:"title"`
}

// UpdateTaskRequest defines the payload for updating a task.
// Completed is a pointer so that a missing field can be told apart from false.
type UpdateTaskRequest struct {
	Completed *bool `json:"completed" validate:"required"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

// DeletedMessage is returned for every successful DELETE, whether or not a row existed.
const DeletedMessage = "Deleted"
