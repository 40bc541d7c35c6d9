package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"assistant/internal/domain/repositories"
	"assistant/internal/httputil"
)

// Pinger checks that the document store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler reports store reachability and the startup index report
type HealthHandler struct {
	store   Pinger
	indexes repositories.IndexReport
	logger  *slog.Logger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(store Pinger, indexes repositories.IndexReport, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		store:   store,
		indexes: indexes,
		logger:  logger,
	}
}

// HealthResponse is the body of GET /health
type HealthResponse struct {
	Status  string                   `json:"status"`
	Store   string                   `json:"store"`
	Indexes repositories.IndexReport `json:"indexes"`
}

// Health answers 200 when the store responds, 503 otherwise. Failed indexes
// mark the service degraded without failing the check.
// GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := HealthResponse{
		Status:  "ok",
		Store:   "ok",
		Indexes: h.indexes,
	}
	if resp.Indexes == nil {
		resp.Indexes = repositories.IndexReport{}
	}
	if !h.indexes.Healthy() {
		resp.Status = "degraded"
	}

	status := http.StatusOK
	if err := h.store.Ping(ctx); err != nil {
		h.logger.Warn("health check: store unreachable", "error", err)
		resp.Status = "unavailable"
		resp.Store = "unreachable"
		status = http.StatusServiceUnavailable
	}

	httputil.RespondJSON(w, status, resp)
}
