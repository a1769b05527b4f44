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

type tokenService interface {
	List(ctx context.Context, userID string) ([]usecase.TokenView, error)
	Create(ctx context.Context, userID, tokenName, tokenValue string) (*usecase.TokenView, error)
	Delete(ctx context.Context, userID, id string) error
}

// TokenHandler serves the token management endpoints. Token secret values
// never leave the server.
type TokenHandler struct {
	tokens tokenService
	logger *slog.Logger
}

// NewTokenHandler creates a new TokenHandler.
func NewTokenHandler(tokens tokenService, logger *slog.Logger) *TokenHandler {
	return &TokenHandler{tokens: tokens, logger: logger}
}

// List handles GET /v1/tokens.
func (h *TokenHandler) List(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	tokens, err := h.tokens.List(r.Context(), key.UserID)
	if err != nil {
		h.logger.Error("failed to list tokens", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}
	if tokens == nil {
		tokens = []usecase.TokenView{}
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"total":  len(tokens),
		"tokens": tokens,
	})
}

// Create handles POST /v1/tokens.
func (h *TokenHandler) Create(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	var req struct {
		TokenName  string `json:"token_name"`
		TokenValue string `json:"token_value"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	token, err := h.tokens.Create(r.Context(), key.UserID, req.TokenName, req.TokenValue)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			respondError(w, http.StatusBadRequest, "token_name and token_value are required")
			return
		}
		h.logger.Error("failed to create token", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusCreated, token)
}

// Delete handles DELETE /v1/tokens/{id}.
func (h *TokenHandler) Delete(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	if err := h.tokens.Delete(r.Context(), key.UserID, chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			respondError(w, http.StatusNotFound, "Token not found")
			return
		}
		h.logger.Error("failed to delete token", "user_id", key.UserID, "error", err)
		respondError(w, http.StatusInternalServerError, "Internal server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}
