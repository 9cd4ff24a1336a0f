package shared

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRespondWithJSON(t *testing.T) {
	t.Parallel()

	t.Run("object", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodGet, "/", nil)

		RespondWithJSON(w, r, http.StatusOK, MessageResponse{Message: "Deleted"})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.JSONEq(t, `{"message":"Deleted"}`, w.Body.String())
	})

	t.Run("nil writes null", func(t *testing.T) {
		t.Parallel()
		w := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPut, "/", nil)

		RespondWithJSON(w, r, http.StatusOK, nil)

		assert.Equal(t, "null", strings.TrimSpace(w.Body.String()))
	})
}

func TestRespondWithError(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPut, "/api/tasks/abc", nil)
	r = r.WithContext(WithTraceID(r.Context(), "trace-123"))

	RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body ErrorResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&body))
	assert.Equal(t, "Invalid task ID", body.Error)
	assert.Equal(t, "trace-123", body.TraceID)
}

func TestRespondWithErrorAndLog(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	log := logger.New(buf, "debug")

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	r = r.WithContext(logger.WithLogger(r.Context(), log))

	dbErr := errors.New("dial tcp 10.1.2.3:5432: password=hunter2 connection refused")
	RespondWithErrorAndLog(w, r, http.StatusInternalServerError, "Database error", dbErr)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"error":"Database error"}`, w.Body.String())
	assert.NotContains(t, w.Body.String(), "10.1.2.3")

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "ERROR", entries[0]["level"])
	assert.NotContains(t, entries[0]["error"], "hunter2")
	assert.NotContains(t, entries[0]["error"], "10.1.2.3")
}
