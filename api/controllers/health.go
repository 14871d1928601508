package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/feastly-app/feastly-backend/api/responses"
	"github.com/feastly-app/feastly-backend/pkg/config"
	"github.com/feastly-app/feastly-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Feastly-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports whether the API's backing stores are reachable.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Feastly-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				checks["postgres"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness: postgres unreachable", err)
				}
			} else {
				checks["postgres"] = "ok"
			}
		}
		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				checks["redis"] = "unreachable"
				healthy = false
				if logg != nil {
					logg.Error(ctx, "readiness: redis unreachable", err)
				}
			} else {
				checks["redis"] = "ok"
			}
		}

		status := http.StatusOK
		label := "ready"
		if !healthy {
			status = http.StatusServiceUnavailable
			label = "degraded"
		}
		responses.WriteSuccessStatus(w, status, map[string]any{
			"status": label,
			"checks": checks,
		})
	}
}
