package middleware

import (
	"net/http"
	"time"

	"github.com/marketa-app/admin-backend/pkg/logger"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (r *statusRecorder) statusOrDefault() int {
	if r.status == 0 {
		// handler wrote the body without an explicit WriteHeader
		return http.StatusOK
	}
	return r.status
}

// Logging emits a start and completion line per request, with method
// and path attached to the context so handler logs carry them too.
func Logging(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if logg == nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := logg.WithFields(r.Context(), map[string]any{
				"method": r.Method,
				"path":   r.URL.Path,
			})
			logg.Info(ctx, "request.start")

			rec := &statusRecorder{ResponseWriter: w}
			start := time.Now()
			next.ServeHTTP(rec, r.WithContext(ctx))

			ctx = logg.WithFields(ctx, map[string]any{
				"status":      rec.statusOrDefault(),
				"duration_ms": time.Since(start).Milliseconds(),
			})
			logg.Info(ctx, "request.complete")
		})
	}
}
