package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/marketa-app/admin-backend/api/responses"
	"github.com/marketa-app/admin-backend/pkg/config"
	pkgerrors "github.com/marketa-app/admin-backend/pkg/errors"
	"github.com/marketa-app/admin-backend/pkg/logger"
)

// Pinger is a dependency the readiness probe can check.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marketa-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, deps map[string]Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Marketa-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		status := map[string]string{}
		for name, dep := range deps {
			if dep == nil {
				continue
			}
			if err := dep.Ping(ctx); err != nil {
				status[name] = "down"
				responses.WriteError(r.Context(), logg, w,
					pkgerrors.Wrap(pkgerrors.CodeDependency, err, name+" unavailable").WithDetails(status))
				return
			}
			status[name] = "up"
		}

		status["status"] = "ready"
		responses.WriteSuccess(w, status)
	}
}
