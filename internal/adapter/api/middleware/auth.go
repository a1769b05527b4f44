package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/user/pomelo-checker/internal/domain"
)

const APIKeyHeader = "X-API-Key"

type contextKey struct{}

var principalKey contextKey

// Principal returns the API key record resolved for the request, if any.
func Principal(ctx context.Context) (*domain.APIKey, bool) {
	key, ok := ctx.Value(principalKey).(*domain.APIKey)
	return key, ok
}

// WithPrincipal stores a resolved API key record on the context.
func WithPrincipal(ctx context.Context, key *domain.APIKey) context.Context {
	return context.WithValue(ctx, principalKey, key)
}

// Auth is a middleware factory that returns a new authentication middleware.
// It resolves the X-API-Key header to a principal and stores the key record
// in the request context. A missing header is rejected before any store
// lookup is attempted.
func Auth(repo domain.APIKeyRepository, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			apiKey := r.Header.Get(APIKeyHeader)
			if apiKey == "" {
				logger.Warn("API key missing from request", "remote_addr", r.RemoteAddr)
				unauthorized(w, "API key is required")
				return
			}

			key, err := repo.FindActive(r.Context(), apiKey)
			if err != nil {
				if errors.Is(err, domain.ErrUnauthorized) {
					logger.Warn("invalid API key provided", "remote_addr", r.RemoteAddr)
					unauthorized(w, "Invalid or inactive API key")
					return
				}
				logger.Error("failed to resolve API key", "error", err)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(map[string]string{"error": "Internal server error"})
				return
			}

			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), key)))
		})
	}
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
