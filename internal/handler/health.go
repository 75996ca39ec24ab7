package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/emberfall-studios/skillforge/internal/database"
	"github.com/emberfall-studios/skillforge/internal/logger"
)

// readinessProbeTimeout bounds the store ping so a hung pool fails the
// probe instead of stalling it
const readinessProbeTimeout = 2 * time.Second

// HealthResponse is the payload for the liveness and readiness probes
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// HandleHealthz reports process liveness
// @Summary Liveness check
// @Description Returns OK if the service is running
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /healthz [get]
func HandleHealthz() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}

// HandleReadyz reports readiness to serve traffic. The player store is
// the only hard dependency; the tick driver and rollover jobs recover
// on their own.
// @Summary Readiness check
// @Description Returns OK if the service is ready to accept traffic (player store reachable)
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /readyz [get]
func HandleReadyz(dbPool database.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), readinessProbeTimeout)
		defer cancel()

		if err := dbPool.Ping(ctx); err != nil {
			logger.FromContext(r.Context()).Error("Readiness check failed", "error", err)
			respondJSON(w, http.StatusServiceUnavailable, HealthResponse{
				Status:  "unavailable",
				Message: "player store unreachable",
			})
			return
		}

		respondJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
	}
}
