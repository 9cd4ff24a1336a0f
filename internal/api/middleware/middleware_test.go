package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/phrazzld/tasks-api/internal/api/middleware"
	"github.com/phrazzld/tasks-api/internal/api/shared"
	"github.com/phrazzld/tasks-api/internal/platform/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type observation struct {
	method  string
	route   string
	status  int
	elapsed time.Duration
}

type recordingObserver struct {
	mu   sync.Mutex
	seen []observation
}

func (o *recordingObserver) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.seen = append(o.seen, observation{method, route, status, elapsed})
}

func newRouter(obs middleware.RequestObserver) chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.MetricsMiddleware(obs))
	r.Get("/api/tasks", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("[]"))
	})
	r.Put("/api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(5 * time.Millisecond)
		w.WriteHeader(http.StatusBadRequest)
	})
	r.Route("/v2", func(r chi.Router) {
		r.Get("/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("null"))
		})
	})
	return r
}

func TestMetricsMiddleware(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		method     string
		path       string
		wantRoute  string
		wantStatus int
	}{
		{"implicit 200", http.MethodGet, "/api/tasks", "/api/tasks", http.StatusOK},
		{"route pattern not raw path", http.MethodPut, "/api/tasks/17", "/api/tasks/{id}", http.StatusBadRequest},
		{"unmatched falls back to path", http.MethodGet, "/nope", "/nope", http.StatusNotFound},
		{"mounted route keeps pattern", http.MethodGet, "/v2/tasks/3", "/v2/tasks/{id}", http.StatusOK},
		{"unmatched under mount falls back to path", http.MethodGet, "/v2/nope", "/v2/nope", http.StatusNotFound},
		{"too deep under mount falls back to path", http.MethodGet, "/v2/tasks/3/x", "/v2/tasks/3/x", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			obs := &recordingObserver{}
			router := newRouter(obs)

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

			require.Len(t, obs.seen, 1, "exactly one observation per request")
			got := obs.seen[0]
			assert.Equal(t, tt.method, got.method)
			assert.Equal(t, tt.wantRoute, got.route)
			assert.Equal(t, tt.wantStatus, got.status)
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestMetricsMiddleware_MeasuresHandlerTime(t *testing.T) {
	t.Parallel()
	obs := &recordingObserver{}

	newRouter(obs).ServeHTTP(httptest.NewRecorder(),
		httptest.NewRequest(http.MethodPut, "/api/tasks/1", nil))

	require.Len(t, obs.seen, 1)
	assert.GreaterOrEqual(t, obs.seen[0].elapsed, 5*time.Millisecond)
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	base := logger.New(buf, "debug")

	var traceID string
	handler := middleware.TraceMiddleware(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.NotEmpty(t, traceID)
	assert.Equal(t, traceID, w.Header().Get(middleware.TraceIDHeader))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.Equal(t, traceID, e["trace_id"])
	}
}

func TestRequestLogger(t *testing.T) {
	t.Parallel()

	buf := &logger.TestLogBuffer{}
	log := logger.New(buf, "info")

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			next.ServeHTTP(w, req.WithContext(logger.WithLogger(req.Context(), log)))
		})
	})
	r.Use(middleware.RequestLogger)
	r.Delete("/api/tasks/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodDelete, "/api/tasks/3", nil))

	entries, err := buf.GetLogEntries()
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "request completed", entries[0]["msg"])
	assert.Equal(t, "WARN", entries[0]["level"])
	assert.Equal(t, "/api/tasks/{id}", entries[0]["route"])
	assert.Equal(t, float64(500), entries[0]["status"])
}
