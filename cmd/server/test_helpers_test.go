package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/domain"
	"github.com/stretchr/testify/require"
)

// testConfig returns a configuration backed by a throwaway SQLite file.
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Server: config.ServerConfig{
			Port:            0,
			LogLevel:        "error",
			ShutdownTimeout: 5 * time.Second,
		},
		Database: config.DatabaseConfig{
			Driver:         config.DriverSQLite,
			SQLitePath:     filepath.Join(t.TempDir(), "tasks.db"),
			MaxConns:       20,
			IdleTimeout:    30 * time.Second,
			AcquireTimeout: 2 * time.Second,
			PoolMode:       config.PoolModeQueue,
		},
		Metrics: config.MetricsConfig{ServiceName: "tasks-api-test"},
	}
}

// setupTestServer builds the full application over SQLite and serves it.
func setupTestServer(t *testing.T, mutate func(*config.Config)) (*application, *httptest.Server) {
	t.Helper()

	cfg := testConfig(t)
	if mutate != nil {
		mutate(cfg)
	}
	logger := slog.New(slog.NewJSONHandler(io.Discard, nil))

	db, err := setupAppDatabase(context.Background(), cfg, logger)
	require.NoError(t, err)

	app, err := newApplication(cfg, logger, db)
	require.NoError(t, err)
	t.Cleanup(app.cleanup)

	srv := httptest.NewServer(app.setupRouter())
	t.Cleanup(srv.Close)
	return app, srv
}

func doJSON(t *testing.T, method, url, body string) *http.Response {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decodeTask(t *testing.T, resp *http.Response) domain.Task {
	t.Helper()
	var task domain.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&task))
	return task
}

func decodeTasks(t *testing.T, resp *http.Response) []domain.Task {
	t.Helper()
	var tasks []domain.Task
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&tasks))
	return tasks
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}
