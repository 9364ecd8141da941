package handlers

import (
	"net/http"
	"time"

	"github.com/go-redis/redis/v8"

	"erp-import-platform/internal/database"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db    *database.Connection
	redis *redis.Client
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *database.Connection, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, redis: rdb}
}

// HealthResponse represents the health check response
type HealthResponse struct {
	Status     string            `json:"status"`
	Timestamp  time.Time         `json:"timestamp"`
	Components map[string]string `json:"components"`
}

// HandleHealthCheck handles the main health check endpoint
func (h *HealthHandler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	components := map[string]string{
		"database": "healthy",
		"redis":    "healthy",
	}
	status := "healthy"

	if sqlDB, err := h.db.DB.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		components["database"] = "unhealthy"
		status = "unhealthy"
	}
	if h.redis == nil || h.redis.Ping(ctx).Err() != nil {
		components["redis"] = "unhealthy"
		status = "unhealthy"
	}

	code := http.StatusOK
	if status != "healthy" {
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, HealthResponse{
		Status:     status,
		Timestamp:  time.Now(),
		Components: components,
	})
}

// HandleLivenessProbe handles Kubernetes liveness probe
func (h *HealthHandler) HandleLivenessProbe(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}
