package middleware

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
)

// RequestObserver receives one observation per completed request.
// *metrics.Registry satisfies it.
type RequestObserver interface {
	ObserveRequest(method, route string, status int, elapsed time.Duration)
}

// MetricsMiddleware times every request from handler entry until the handler
// returns and reports it once. The route label is the matched chi pattern,
// or the raw path when nothing matched.
func MetricsMiddleware(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			observer.ObserveRequest(r.Method, RoutePattern(r), status, time.Since(start))
		})
	}
}

// RoutePattern returns the chi route pattern that handled r, falling back to
// the request path. A mount wildcard that still holds an unrouted remainder
// means the subrouter matched nothing, so it also falls back.
func RoutePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		pattern := rctx.RoutePattern()
		if strings.HasSuffix(pattern, "/*") && rctx.URLParam("*") != "" {
			return r.URL.Path
		}
		if pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
