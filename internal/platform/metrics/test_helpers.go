package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// HistogramSampleCount returns how many requests were observed for the given
// label set, or zero if none were.
func HistogramSampleCount(t testing.TB, r *Registry, method, route, status string) uint64 {
	t.Helper()

	families, err := r.Gatherer().Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	want := map[string]string{"method": method, "route": route, "status": status}
	for _, mf := range families {
		if mf.GetName() != "http_request_duration_seconds" {
			continue
		}
	metrics:
		for _, m := range mf.GetMetric() {
			for _, lp := range m.GetLabel() {
				if v, ok := want[lp.GetName()]; ok && v != lp.GetValue() {
					continue metrics
				}
			}
			return m.GetHistogram().GetSampleCount()
		}
	}
	return 0
}

// TaskOperationCount returns the current value of tasks_total for operation.
func TaskOperationCount(r *Registry, operation string) float64 {
	return testutil.ToFloat64(r.taskOperations.WithLabelValues(operation))
}
