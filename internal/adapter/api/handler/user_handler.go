package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/user/pomelo-checker/internal/adapter/api/middleware"
	"github.com/user/pomelo-checker/internal/domain"
)

type profileGetter interface {
	Get(ctx context.Context, key *domain.APIKey) (*domain.ProfileView, error)
}

// UserHandler serves GET /v1/user.
type UserHandler struct {
	profiles profileGetter
	logger   *slog.Logger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(profiles profileGetter, logger *slog.Logger) *UserHandler {
	return &UserHandler{profiles: profiles, logger: logger}
}

// ServeHTTP returns the aggregated profile view for the caller's principal.
func (h *UserHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	view, err := h.profiles.Get(r.Context(), key)
	if err != nil {
		h.logger.Error("failed to build profile view", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, view)
}
