package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/pomelo-checker/internal/domain"
)

type userLookup interface {
	Lookup(ctx context.Context, userID string) (*domain.DiscordUser, error)
}

// LookupHandler serves POST /v1/lookup.
type LookupHandler struct {
	lookup userLookup
	logger *slog.Logger
}

// NewLookupHandler creates a new LookupHandler.
func NewLookupHandler(lookup userLookup, logger *slog.Logger) *LookupHandler {
	return &LookupHandler{lookup: lookup, logger: logger}
}

// ServeHTTP resolves one Discord user by numeric ID.
func (h *LookupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req struct {
		UserID string `json:"userId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.UserID == "" {
		respondError(w, http.StatusBadRequest, "User ID is required")
		return
	}

	user, err := h.lookup.Lookup(r.Context(), req.UserID)
	if err != nil {
		var upstream *domain.UpstreamError
		switch {
		case errors.Is(err, domain.ErrNotFound):
			respondError(w, http.StatusNotFound, "User not found")
		case errors.As(err, &upstream):
			respondError(w, upstream.StatusCode, "Failed to fetch user data from Discord")
		default:
			h.logger.Error("user lookup failed", "user_id", req.UserID, "error", err)
			respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	respondJSON(w, http.StatusOK, user)
}
