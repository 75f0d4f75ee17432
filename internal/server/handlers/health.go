package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"galaxy-server/internal/shared/response"
)

// StatusChecker is implemented by the database and Redis connections.
type StatusChecker interface {
	Status(ctx context.Context) string
}

type HealthResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Database  string `json:"database"`
	Redis     string `json:"redis"`
}

type HealthHandler struct {
	db    StatusChecker
	redis StatusChecker
}

func NewHealthHandler(db, redis StatusChecker) *HealthHandler {
	return &HealthHandler{db: db, redis: redis}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	logger := slog.With("handler", "health")

	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().Format(time.RFC3339),
		Database:  h.db.Status(ctx),
		Redis:     h.redis.Status(ctx),
	}

	// redis is optional; the in-memory cache covers for it
	if resp.Database != "connected" || resp.Redis == "disconnected" {
		resp.Status = "degraded"
		logger.Warn("Health check degraded", "database", resp.Database, "redis", resp.Redis)
	}

	response.Success(w, http.StatusOK, resp)
}
