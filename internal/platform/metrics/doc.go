// Package metrics provides the Prometheus registry shared by the HTTP
// middleware and the task service.
//
// A Registry is built once at process start and passed to its consumers; no
// metric lives in a package-level variable. It carries:
//
//   - http_request_duration_seconds: histogram by method, route and status
//   - http_requests_total: counter by method, route and status
//   - tasks_total: counter by task operation
//   - Go runtime, process and build info collectors
//   - go_sql_* connection pool statistics once RegisterDBStats is called
//
// Every series carries a constant service label taken from configuration.
package metrics
