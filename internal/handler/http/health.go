package http

import (
	"AutosValle-Backend/internal/analytics"
	"AutosValle-Backend/internal/repository"
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// HealthHandler serves the liveness and readiness probes.
type HealthHandler struct {
	storage   repository.Storage
	processor *analytics.Processor
	log       *zap.Logger
}

func NewHealthHandler(storage repository.Storage, processor *analytics.Processor, log *zap.Logger) *HealthHandler {
	return &HealthHandler{
		storage:   storage,
		processor: processor,
		log:       log,
	}
}

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status         string    `json:"status"`
	Timestamp      time.Time `json:"timestamp"`
	DatabaseStatus string    `json:"database_status"`
	Uptime         string    `json:"uptime,omitempty"`
}

var startTime = time.Now()

// Health reports liveness, probing storage with a cheap known-miss lookup.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	_, err := h.storage.GetVehicle(ctx, -1)
	if err != nil && !errors.Is(err, repository.ErrVehicleNotFound) {
		dbStatus = "unhealthy"
		h.log.Error("database health check failed", zap.Error(err))
	}

	status := "healthy"
	statusCode := http.StatusOK
	if dbStatus == "unhealthy" {
		status = "unhealthy"
		statusCode = http.StatusServiceUnavailable
	}

	writeJSON(w, HealthResponse{
		Status:         status,
		Timestamp:      time.Now(),
		DatabaseStatus: dbStatus,
		Uptime:         time.Since(startTime).String(),
	}, statusCode)
}

// Ready reports readiness plus the analytics queue state.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]interface{}{
		"status":    "ready",
		"timestamp": time.Now(),
		"analytics": h.processor.GetStats(),
	}, http.StatusOK)
}
