package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"testing"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/metrics"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskAPI_Lifecycle(t *testing.T) {
	t.Parallel()
	_, srv := setupTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/api/tasks", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", readBody(t, resp))

	resp = doJSON(t, http.MethodPost, srv.URL+"/api/tasks", `{"title":"buy milk"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	created := decodeTask(t, resp)
	assert.Positive(t, created.ID)
	assert.Equal(t, "buy milk", created.Title)
	assert.False(t, created.Completed)

	taskURL := srv.URL + "/api/tasks/" + strconv.FormatInt(created.ID, 10)

	resp = doJSON(t, http.MethodPut, taskURL, `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.True(t, decodeTask(t, resp).Completed)

	resp = doJSON(t, http.MethodPut, taskURL, `{"completed":false}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.False(t, decodeTask(t, resp).Completed, "toggling twice restores the original value")

	resp = doJSON(t, http.MethodDelete, taskURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Deleted"}`, readBody(t, resp))

	resp = doJSON(t, http.MethodDelete, taskURL, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"message":"Deleted"}`, readBody(t, resp))

	resp = doJSON(t, http.MethodGet, srv.URL+"/api/tasks", "")
	assert.Empty(t, decodeTasks(t, resp))
}

func TestTaskAPI_ListNewestFirst(t *testing.T) {
	t.Parallel()
	_, srv := setupTestServer(t, nil)

	const n = 6
	for i := 0; i < n; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", fmt.Sprintf(`{"title":"t%d"}`, i))
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}

	tasks := decodeTasks(t, doJSON(t, http.MethodGet, srv.URL+"/api/tasks", ""))
	require.Len(t, tasks, n)
	for i := 1; i < n; i++ {
		assert.Greater(t, tasks[i-1].ID, tasks[i].ID)
	}
}

func TestTaskAPI_UpdateMissing(t *testing.T) {
	t.Parallel()

	t.Run("null by default", func(t *testing.T) {
		t.Parallel()
		_, srv := setupTestServer(t, nil)

		resp := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/4242", `{"completed":true}`)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "null", readBody(t, resp))
	})

	t.Run("404 when strict", func(t *testing.T) {
		t.Parallel()
		_, srv := setupTestServer(t, func(cfg *config.Config) {
			cfg.Server.StrictNotFound = true
		})

		resp := doJSON(t, http.MethodPut, srv.URL+"/api/tasks/4242", `{"completed":true}`)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Contains(t, readBody(t, resp), `"error":"Task not found"`)
	})
}

func TestTaskAPI_BadInput(t *testing.T) {
	t.Parallel()
	_, srv := setupTestServer(t, nil)

	tests := []struct {
		name   string
		method string
		path   string
		body   string
	}{
		{"malformed create body", http.MethodPost, "/api/tasks", `{"title"`},
		{"non-integer id on update", http.MethodPut, "/api/tasks/abc", `{"completed":true}`},
		{"missing completed", http.MethodPut, "/api/tasks/1", `{}`},
		{"non-integer id on delete", http.MethodDelete, "/api/tasks/abc", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := doJSON(t, tt.method, srv.URL+tt.path, tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestTaskAPI_ConcurrentCreatesUniqueIDs(t *testing.T) {
	t.Parallel()
	_, srv := setupTestServer(t, nil)

	const n = 30
	var (
		mu  sync.Mutex
		ids = make(map[int64]struct{}, n)
		wg  sync.WaitGroup
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", fmt.Sprintf(`{"title":"c%d"}`, i))
			if !assert.Equal(t, http.StatusOK, resp.StatusCode) {
				return
			}
			task := decodeTask(t, resp)
			mu.Lock()
			ids[task.ID] = struct{}{}
			mu.Unlock()
		}(i)
	}
	wg.Wait()

	assert.Len(t, ids, n)
}

func TestTaskAPI_Metrics(t *testing.T) {
	t.Parallel()
	app, srv := setupTestServer(t, nil)

	for i := 0; i < 3; i++ {
		resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", `{"title":"m"}`)
		require.Equal(t, http.StatusOK, resp.StatusCode)
	}
	resp := doJSON(t, http.MethodPost, srv.URL+"/api/tasks", `{bad`)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/1", `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp = doJSON(t, http.MethodPut, srv.URL+"/api/tasks/2", `{"completed":true}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	assert.Equal(t, float64(3), metrics.TaskOperationCount(app.metrics, metrics.OperationCreate),
		"only successful creates are counted")
	assert.Equal(t, uint64(3), metrics.HistogramSampleCount(t, app.metrics, "POST", "/api/tasks", "200"))
	assert.Equal(t, uint64(1), metrics.HistogramSampleCount(t, app.metrics, "POST", "/api/tasks", "400"))
	assert.Equal(t, uint64(2), metrics.HistogramSampleCount(t, app.metrics, "PUT", "/api/tasks/{id}", "200"))

	resp = doJSON(t, http.MethodGet, srv.URL+"/metrics", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, "http_request_duration_seconds_bucket")
	assert.Contains(t, body, `le="0.1"`)
	assert.Contains(t, body, `le="5"`)
	assert.Contains(t, body, "http_requests_total")
	assert.Contains(t, body, `tasks_total{operation="create",service="tasks-api-test"} 3`)
	assert.Contains(t, body, "go_goroutines")
	assert.Contains(t, body, "go_sql_max_open_connections")
}

func TestTaskAPI_UnmatchedRouteLabels(t *testing.T) {
	t.Parallel()
	app, srv := setupTestServer(t, nil)

	for _, path := range []string{"/api/nope", "/nope", "/api/tasks/1/x"} {
		resp := doJSON(t, http.MethodGet, srv.URL+path, "")
		require.Equal(t, http.StatusNotFound, resp.StatusCode, path)
	}

	assert.Equal(t, uint64(1), metrics.HistogramSampleCount(t, app.metrics, "GET", "/api/nope", "404"))
	assert.Equal(t, uint64(1), metrics.HistogramSampleCount(t, app.metrics, "GET", "/nope", "404"))
	assert.Equal(t, uint64(1), metrics.HistogramSampleCount(t, app.metrics, "GET", "/api/tasks/1/x", "404"))
	assert.Equal(t, uint64(0), metrics.HistogramSampleCount(t, app.metrics, "GET", "/api/*", "404"))
}

func TestHealthAndCORS(t *testing.T) {
	t.Parallel()
	_, srv := setupTestServer(t, nil)

	resp := doJSON(t, http.MethodGet, srv.URL+"/health", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"status":"healthy"`)

	req, err := http.NewRequest(http.MethodOptions, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPut)
	preflight, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = preflight.Body.Close() }()

	assert.Less(t, preflight.StatusCode, 300)
	assert.Equal(t, "*", preflight.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, preflight.Header.Get("Access-Control-Allow-Methods"), http.MethodPut)

	req, err = http.NewRequest(http.MethodGet, srv.URL+"/api/tasks", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://example.test")
	simple, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = simple.Body.Close() }()
	assert.Equal(t, "*", simple.Header.Get("Access-Control-Allow-Origin"))
}

func TestHandleMigrations(t *testing.T) {
	t.Parallel()
	app, _ := setupTestServer(t, nil)

	assert.NoError(t, handleMigrations(context.Background(), app.db, app.config, "up", app.logger))
	assert.NoError(t, handleMigrations(context.Background(), app.db, app.config, "status", app.logger))
	assert.Error(t, handleMigrations(context.Background(), app.db, app.config, "down", app.logger))
}
