package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/angelmondragon/babydeals-backend/api/responses"
	"github.com/angelmondragon/babydeals-backend/pkg/config"
	pkgerrors "github.com/angelmondragon/babydeals-backend/pkg/errors"
	"github.com/angelmondragon/babydeals-backend/pkg/logger"
)

const readinessTimeout = 2 * time.Second

// Pinger is satisfied by the database and redis clients.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Babydeals-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady reports ready only when the database and redis answer a ping.
func HealthReady(cfg *config.Config, logg *logger.Logger, db Pinger, cache Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Babydeals-Env", cfg.App.Env)

		ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
		defer cancel()

		checks := map[string]string{"database": "ok", "redis": "ok"}
		var failure error
		if db == nil {
			checks["database"] = "missing"
			failure = pkgerrors.New(pkgerrors.CodeDependency, "database not configured")
		} else if err := db.Ping(ctx); err != nil {
			checks["database"] = "down"
			failure = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "database ping failed")
		}
		if cache == nil {
			checks["redis"] = "missing"
			if failure == nil {
				failure = pkgerrors.New(pkgerrors.CodeDependency, "redis not configured")
			}
		} else if err := cache.Ping(ctx); err != nil {
			checks["redis"] = "down"
			if failure == nil {
				failure = pkgerrors.Wrap(pkgerrors.CodeDependency, err, "redis ping failed")
			}
		}

		if failure != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.As(failure).WithDetails(checks))
			return
		}
		responses.WriteSuccess(w, map[string]any{"status": "ready", "checks": checks})
	}
}
