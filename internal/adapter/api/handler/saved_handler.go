package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/pomelo-checker/internal/adapter/api/middleware"
	"github.com/user/pomelo-checker/internal/domain"
	"github.com/user/pomelo-checker/internal/usecase"
)

type savedService interface {
	List(ctx context.Context, userID string) (*usecase.SavedListView, error)
	Create(ctx context.Context, userID, username string, notes *string) (*domain.SavedUsername, error)
	Update(ctx context.Context, userID, id string, notes *string, isClaimed *bool) error
	Delete(ctx context.Context, userID, id string) error
}

// SavedHandler serves the saved-usernames endpoints.
type SavedHandler struct {
	saved  savedService
	logger *slog.Logger
}

// NewSavedHandler creates a new SavedHandler.
func NewSavedHandler(saved savedService, logger *slog.Logger) *SavedHandler {
	return &SavedHandler{saved: saved, logger: logger}
}

// List handles GET /v1/saved.
func (h *SavedHandler) List(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	view, err := h.saved.List(r.Context(), key.UserID)
	if err != nil {
		h.logger.Error("failed to list saved usernames", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Failed to fetch saved usernames")
		return
	}

	respondJSON(w, http.StatusOK, view)
}

// Create handles POST /v1/saved.
func (h *SavedHandler) Create(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	var req struct {
		Username string  `json:"username"`
		Notes    *string `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	saved, err := h.saved.Create(r.Context(), key.UserID, req.Username, req.Notes)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "Username is required")
			return
		}
		h.logger.Error("failed to save username", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, saved)
}

// Update handles PATCH /v1/saved/{id}.
func (h *SavedHandler) Update(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	var req struct {
		Notes     *string `json:"notes"`
		IsClaimed *bool   `json:"is_claimed"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	err := h.saved.Update(r.Context(), key.UserID, chi.URLParam(r, "id"), req.Notes, req.IsClaimed)
	if err != nil {
		h.respondMutationError(w, key.UserID, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Delete handles DELETE /v1/saved/{id}.
func (h *SavedHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	if err := h.saved.Delete(r.Context(), key.UserID, chi.URLParam(r, "id")); err != nil {
		h.respondMutationError(w, key.UserID, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *SavedHandler) respondMutationError(w http.ResponseWriter, userID string, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "Saved username not found")
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, "Nothing to update")
	default:
		h.logger.Error("saved username mutation failed", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
