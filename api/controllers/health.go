package controllers

import (
	"net/http"

	"github.com/leadflowhq/leadflow-backend/api/responses"
	"github.com/leadflowhq/leadflow-backend/pkg/bigquery"
	"github.com/leadflowhq/leadflow-backend/pkg/config"
	"github.com/leadflowhq/leadflow-backend/pkg/db"
	pkgerrors "github.com/leadflowhq/leadflow-backend/pkg/errors"
	"github.com/leadflowhq/leadflow-backend/pkg/logger"
	"github.com/leadflowhq/leadflow-backend/pkg/redis"
)

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-LeadFlow-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady fails when a required dependency is unreachable. Optional
// dependencies report their state without failing readiness.
func HealthReady(cfg *config.Config, logg *logger.Logger, dbP db.Pinger, redisP redis.Pinger, bqP bigquery.Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-LeadFlow-Env", cfg.App.Env)

		checks := map[string]string{}

		if dbP != nil {
			if err := dbP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database unavailable"))
				return
			}
			checks["database"] = "ok"
		}

		if redisP != nil {
			if err := redisP.Ping(ctx); err != nil {
				responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis unavailable"))
				return
			}
			checks["redis"] = "ok"
		}

		if bqP != nil {
			if err := bqP.Ping(ctx); err != nil {
				checks["bigquery"] = "degraded"
			} else {
				checks["bigquery"] = "ok"
			}
		}

		checks["status"] = "ready"
		responses.WriteSuccess(w, checks)
	}
}
