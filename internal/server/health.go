package server

import (
	"context"
	"database/sql"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

func handleHealth(logger *slog.Logger, db *sql.DB, rdb *redis.Client) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		body := map[string]string{
			"status":   "ok",
			"database": "connected",
		}
		status := http.StatusOK

		if err := db.PingContext(ctx); err != nil {
			logger.Error("health check failed", "name", "sqlite", "error", err)
			body["status"] = "error"
			body["database"] = "disconnected"
			status = http.StatusServiceUnavailable
		}

		if rdb != nil {
			body["redis"] = "connected"
			if err := rdb.Ping(ctx).Err(); err != nil {
				logger.Error("health check failed", "name", "redis", "error", err)
				body["status"] = "error"
				body["redis"] = "disconnected"
				status = http.StatusServiceUnavailable
			}
		}

		writeJSON(w, status, body)
	}
}
