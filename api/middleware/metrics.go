package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/marketa-app/admin-backend/pkg/metrics"
)

// Metrics records per-route request counts and latency. The route label
// is the chi pattern, not the raw path, so ids do not explode the
// cardinality.
func Metrics(httpMetrics *metrics.HTTPMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()

			next.ServeHTTP(rec, r)

			if rec.status == 0 {
				rec.status = http.StatusOK
			}

			route := r.URL.Path
			if rctx := chi.RouteContext(r.Context()); rctx != nil {
				if pattern := rctx.RoutePattern(); pattern != "" {
					route = pattern
				}
			}

			httpMetrics.ObserveRequest(r.Method, route, strconv.Itoa(rec.status), time.Since(start))
		})
	}
}
