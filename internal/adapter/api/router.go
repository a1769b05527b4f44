package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"

	"github.com/user/pomelo-checker/internal/adapter/api/handler"
	"github.com/user/pomelo-checker/internal/adapter/api/middleware"
	"github.com/user/pomelo-checker/internal/domain"
)

// Handlers groups the endpoint handlers wired into the router.
type Handlers struct {
	Check  *handler.CheckHandler
	Lookup *handler.LookupHandler
	User   *handler.UserHandler
	Stats  *handler.StatsHandler
	Saved  *handler.SavedHandler
	Tokens *handler.TokenHandler
}

// NewRouter creates and configures the main HTTP router for the checker service.
// Every route answers OPTIONS pre-flight via the CORS middleware.
func NewRouter(logger *slog.Logger, apiKeyRepo domain.APIKeyRepository, h Handlers) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Logging(logger))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Token-Name"},
	}))

	r.Get("/health", func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	// No caller auth: the internal check uses the configured global account,
	// and the lookup relies on the process-level bot credential.
	r.Post("/internal/check", h.Check.Internal)
	r.Post("/v1/lookup", h.Lookup.ServeHTTP)

	// Key-gated routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(apiKeyRepo, logger))

		r.Post("/v1/check", h.Check.Gated)
		r.Get("/v1/user", h.User.ServeHTTP)
		r.Get("/v1/stats", h.Stats.ServeHTTP)

		r.Get("/v1/saved", h.Saved.List)
		r.Post("/v1/saved", h.Saved.Create)
		r.Patch("/v1/saved/{id}", h.Saved.Update)
		r.Delete("/v1/saved/{id}", h.Saved.Delete)

		r.Get("/v1/tokens", h.Tokens.List)
		r.Post("/v1/tokens", h.Tokens.Create)
		r.Delete("/v1/tokens/{id}", h.Tokens.Delete)
	})

	return r
}
