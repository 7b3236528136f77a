package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/velomart/velomart-backend/api/responses"
	"github.com/velomart/velomart-backend/pkg/config"
	"github.com/velomart/velomart-backend/pkg/db"
	"github.com/velomart/velomart-backend/pkg/logger"
	"github.com/velomart/velomart-backend/pkg/redis"
)

const readyCheckTimeout = 2 * time.Second

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VeloMart-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-VeloMart-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
		defer cancel()

		checks := map[string]string{}
		healthy := true

		checks["database"] = "ok"
		if dbP == nil {
			checks["database"] = "not configured"
			healthy = false
		} else if err := dbP.Ping(ctx); err != nil {
			checks["database"] = err.Error()
			healthy = false
		}

		checks["redis"] = "ok"
		if redisP == nil {
			checks["redis"] = "not configured"
			healthy = false
		} else if err := redisP.Ping(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		}

		if !healthy {
			if logg != nil {
				logg.Warn(logg.WithField(r.Context(), "checks", checks), "readiness check failed")
			}
			responses.WriteSuccessStatus(w, http.StatusServiceUnavailable, checks)
			return
		}
		responses.WriteSuccess(w, checks)
	}
}
