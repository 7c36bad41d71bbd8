package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/marketa-app/admin-backend/pkg/logger"
)

const requestIDHeader = "X-Request-Id"

// RequestID threads a request id through the response header and the
// request logger. An id supplied by the caller is kept so traces can
// span the admin UI and this service.
func RequestID(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			reqID := requestIDFrom(r)
			w.Header().Set(requestIDHeader, reqID)

			ctx := r.Context()
			if logg != nil {
				ctx = logg.WithRequestID(ctx, reqID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func requestIDFrom(r *http.Request) string {
	if id := r.Header.Get(requestIDHeader); id != "" {
		return id
	}
	return uuid.NewString()
}
