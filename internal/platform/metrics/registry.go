package metrics

import (
	"database/sql"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/phrazzld/tasks-api/internal/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// OperationCreate labels tasks_total increments made after a task is created.
const OperationCreate = "create"

// RequestDurationBuckets are the histogram bucket upper bounds, in seconds.
var RequestDurationBuckets = []float64{0.1, 0.5, 1, 2, 5}

// Registry owns the Prometheus registry and the application's metric vectors.
type Registry struct {
	registry   *prometheus.Registry
	registerer prometheus.Registerer

	requestDuration *prometheus.HistogramVec
	requestsTotal   *prometheus.CounterVec
	taskOperations  *prometheus.CounterVec
}

// New builds a Registry with the default runtime collectors and the
// application metrics registered.
func New(cfg config.MetricsConfig) *Registry {
	reg := prometheus.NewRegistry()

	// Wrap with service label
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		reg,
	)

	wrapped.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewBuildInfoCollector(),
	)

	r := &Registry{
		registry:   reg,
		registerer: wrapped,
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "Duration of HTTP requests in seconds",
				Buckets: RequestDurationBuckets,
			},
			[]string{"method", "route", "status"},
		),
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		taskOperations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "tasks_total",
				Help: "Total tasks",
			},
			[]string{"operation"},
		),
	}

	wrapped.MustRegister(r.requestDuration, r.requestsTotal, r.taskOperations)
	return r
}

// ObserveRequest records one completed HTTP request.
func (r *Registry) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	code := strconv.Itoa(status)
	r.requestDuration.WithLabelValues(method, route, code).Observe(elapsed.Seconds())
	r.requestsTotal.WithLabelValues(method, route, code).Inc()
}

// RecordTaskOperation increments tasks_total for operation.
func (r *Registry) RecordTaskOperation(operation string) {
	r.taskOperations.WithLabelValues(operation).Inc()
}

// RegisterDBStats exports the connection pool statistics of db under the
// given database name.
func (r *Registry) RegisterDBStats(db *sql.DB, dbName string) error {
	if err := r.registerer.Register(collectors.NewDBStatsCollector(db, dbName)); err != nil {
		return fmt.Errorf("failed to register db stats collector: %w", err)
	}
	return nil
}

// Gatherer exposes the underlying registry for scraping and tests.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Handler serves the registry in the Prometheus text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
