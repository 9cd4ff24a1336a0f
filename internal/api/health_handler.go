package api

import (
	"net/http"
	"time"

	"github.com/phrazzld/tasks-api/internal/api/shared"
)

// HealthHandler answers liveness probes. It does not touch the database.
type HealthHandler struct {
	now func() time.Time
}

// NewHealthHandler creates a HealthHandler using the wall clock.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{now: time.Now}
}

// Health handles GET /health requests
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: h.now().UTC().Format("2006-01-02T15:04:05.000Z07:00"),
	})
}
