//go:build integration

package postgres_test

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/phrazzld/tasks-api/internal/platform/migrations"
	"github.com/phrazzld/tasks-api/internal/platform/pool"
	"github.com/phrazzld/tasks-api/internal/platform/postgres"
	"github.com/phrazzld/tasks-api/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

// setupPostgresContainer starts a disposable PostgreSQL, creates the tasks
// table and returns an open handle.
func setupPostgresContainer(t *testing.T) *sql.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image: "postgres:15",
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
		},
		ExposedPorts: []string{"5432/tcp"},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err, "failed to start postgres container")
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	cfg := config.DatabaseConfig{
		Driver:         config.DriverPostgres,
		Host:           host,
		Port:           port,
		Name:           "testdb",
		User:           "testuser",
		Password:       "testpass",
		SSL:            false,
		MaxConns:       20,
		IdleTimeout:    30 * time.Second,
		AcquireTimeout: 2 * time.Second,
		PoolMode:       config.PoolModeQueue,
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	db, err := postgres.Open(ctx, cfg, logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Up(ctx, db, config.DriverPostgres, logger))
	return db
}

func TestPostgresTaskStore_Integration(t *testing.T) {
	db := setupPostgresContainer(t)
	gate := pool.NewGate(20, config.PoolModeQueue, 2*time.Second)
	s := postgres.NewPostgresTaskStore(db, gate)
	ctx := context.Background()

	t.Run("creates list newest first", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			_, err := s.Create(ctx, fmt.Sprintf("task %d", i))
			require.NoError(t, err)
		}

		tasks, err := s.List(ctx)
		require.NoError(t, err)
		require.GreaterOrEqual(t, len(tasks), 5)
		for i := 1; i < len(tasks); i++ {
			assert.Greater(t, tasks[i-1].ID, tasks[i].ID)
		}
	})

	t.Run("toggle twice restores value", func(t *testing.T) {
		created, err := s.Create(ctx, "toggle me")
		require.NoError(t, err)

		first, err := s.SetCompleted(ctx, created.ID, !created.Completed)
		require.NoError(t, err)
		second, err := s.SetCompleted(ctx, created.ID, !first.Completed)
		require.NoError(t, err)
		assert.Equal(t, created.Completed, second.Completed)
	})

	t.Run("update of missing id", func(t *testing.T) {
		_, err := s.SetCompleted(ctx, 1<<40, true)
		assert.ErrorIs(t, err, store.ErrTaskNotFound)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		created, err := s.Create(ctx, "delete me")
		require.NoError(t, err)
		require.NoError(t, s.Delete(ctx, created.ID))
		require.NoError(t, s.Delete(ctx, created.ID))
	})

	t.Run("concurrent creates get unique ids", func(t *testing.T) {
		const n = 50
		ids := make(chan int64, n)
		var wg sync.WaitGroup
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				created, err := s.Create(ctx, fmt.Sprintf("concurrent %d", i))
				if assert.NoError(t, err) {
					ids <- created.ID
				}
			}(i)
		}
		wg.Wait()
		close(ids)

		seen := make(map[int64]bool, n)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}
