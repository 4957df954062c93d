package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/smartgrocer/grocer-backend/api/responses"
	"github.com/smartgrocer/grocer-backend/pkg/config"
	"github.com/smartgrocer/grocer-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

type pinger interface {
	Ping(context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Grocer-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady probes the database and redis; a failed dependency reports 503
// with the per-dependency status.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP, redisP pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Grocer-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = probe(ctx, dbP)
		checks["redis"] = probe(ctx, redisP)
		for name, status := range checks {
			if status != "ok" {
				healthy = false
				if logg != nil {
					logg.Warn(logg.WithField(ctx, "dependency", name), "readiness probe failed")
				}
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

func probe(ctx context.Context, p pinger) string {
	if p == nil {
		return "skipped"
	}
	if err := p.Ping(ctx); err != nil {
		return err.Error()
	}
	return "ok"
}
