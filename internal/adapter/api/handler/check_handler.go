package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/user/pomelo-checker/internal/adapter/api/middleware"
	"github.com/user/pomelo-checker/internal/domain"
	"github.com/user/pomelo-checker/internal/usecase"
)

// usernameChecker is the slice of the batch checker needed by the internal endpoint.
type usernameChecker interface {
	Check(ctx context.Context, userID, tokenName string, usernames []string) (map[string]domain.Label, error)
}

// gatedChecker is the quota-enforcing checker behind the key-gated endpoint.
type gatedChecker interface {
	Check(ctx context.Context, key *domain.APIKey, tokenName string, usernames []string) (*usecase.APICheckResult, error)
}

type checkRequest struct {
	Usernames []string `json:"usernames"`
	TokenName string   `json:"tokenName"`
}

// CheckHandler serves both the internal and the key-gated batch check endpoints.
type CheckHandler struct {
	internal        usernameChecker
	gated           gatedChecker
	logger          *slog.Logger
	globalAccountID string
	globalTokenName string
	maxBatch        int
}

// NewCheckHandler creates a new CheckHandler. globalAccountID is the
// principal whose tokens back the internal endpoint; globalTokenName is the
// token picked when a request names none.
func NewCheckHandler(internal usernameChecker, gated gatedChecker, logger *slog.Logger, globalAccountID, globalTokenName string, maxBatch int) *CheckHandler {
	return &CheckHandler{
		internal:        internal,
		gated:           gated,
		logger:          logger,
		globalAccountID: globalAccountID,
		globalTokenName: globalTokenName,
		maxBatch:        maxBatch,
	}
}

// Internal handles POST /internal/check. No caller auth; the deployment is
// expected to keep this endpoint off the public surface.
func (h *CheckHandler) Internal(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	tokenName := req.TokenName
	if tokenName == "" {
		tokenName = h.globalTokenName
	}

	results, err := h.internal.Check(r.Context(), h.globalAccountID, tokenName, req.Usernames)
	if err != nil {
		h.respondCheckError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"results": results,
	})
}

// Gated handles POST /v1/check for authenticated callers.
func (h *CheckHandler) Gated(w http.ResponseWriter, r *http.Request) {
	key, ok := middleware.Principal(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "API key is required")
		return
	}

	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	result, err := h.gated.Check(r.Context(), key, req.TokenName, req.Usernames)
	if err != nil {
		h.respondCheckError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"success":            true,
		"results":            result.Results,
		"requests_remaining": result.RequestsRemaining,
		"daily_limit":        result.DailyLimit,
	})
}

func (h *CheckHandler) decode(w http.ResponseWriter, r *http.Request) (*checkRequest, bool) {
	var req checkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid request body",
		})
		return nil, false
	}
	if len(req.Usernames) == 0 || len(req.Usernames) > h.maxBatch {
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid usernames array (must be 1-" + strconv.Itoa(h.maxBatch) + " usernames)",
		})
		return nil, false
	}
	return &req, true
}

func (h *CheckHandler) respondCheckError(w http.ResponseWriter, err error) {
	var rateErr *domain.RateLimitError
	var quotaErr *domain.QuotaError

	switch {
	case errors.Is(err, domain.ErrNoActiveToken):
		respondJSON(w, http.StatusNotFound, map[string]any{
			"success": false,
			"error":   "Token not found or inactive",
		})
	case errors.Is(err, domain.ErrInvalidInput):
		respondJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Invalid request",
		})
	case errors.As(err, &rateErr):
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"success":     false,
			"error":       "Rate limit exceeded",
			"retry_after": int(rateErr.RetryAfter.Seconds() + 0.999),
		})
	case errors.As(err, &quotaErr):
		respondJSON(w, http.StatusTooManyRequests, map[string]any{
			"success": false,
			"error":   "Daily limit reached",
			"limit":   quotaErr.Limit,
			"used":    quotaErr.Used,
		})
	default:
		h.logger.Error("batch check failed", "error", err)
		respondJSON(w, http.StatusInternalServerError, map[string]any{
			"success": false,
			"error":   "Internal server error",
		})
	}
}
