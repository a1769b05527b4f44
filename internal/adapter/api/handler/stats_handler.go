package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/user/pomelo-checker/internal/adapter/api/middleware"
	"github.com/user/pomelo-checker/internal/domain"
)

type statsGetter interface {
	Get(ctx context.Context, userID string) (*domain.Stats, error)
}

// StatsHandler serves GET /v1/stats.
type StatsHandler struct {
	stats  statsGetter
	logger *slog.Logger
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(stats statsGetter, logger *slog.Logger) *StatsHandler {
	return &StatsHandler{stats: stats, logger: logger}
}

// ServeHTTP returns per-principal usage aggregates.
func (h *StatsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	stats, err := h.stats.Get(r.Context(), key.UserID)
	if err != nil {
		h.logger.Error("failed to build stats", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
