package api

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/user/pomelo-checker/internal/adapter/api/handler"
	"github.com/user/pomelo-checker/internal/domain"
	"github.com/user/pomelo-checker/internal/domain/mocks"
	"github.com/user/pomelo-checker/internal/usecase"
)

func newTestRouter(t *testing.T) (http.Handler, *mocks.MockAPIKeyRepository) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	keyRepo := &mocks.MockAPIKeyRepository{
		Keys: map[string]*domain.APIKey{
			"test-key": {ID: "k1", UserID: "user-1", Status: domain.KeyStatusActive, DailyLimit: 50},
		},
	}
	tokenRepo := &mocks.MockTokenRepository{
		ActiveToken: &domain.UserToken{ID: "t1", UserID: "user-1", TokenName: "Global", TokenValue: "secret", IsActive: true},
	}
	discord := &mocks.MockDiscordClient{
		CheckFunc: func(ctx context.Context, token, username string) (domain.ProbeResult, error) {
			taken := username != "freename"
			return domain.ProbeResult{StatusCode: 200, Taken: &taken}, nil
		},
		LookupFunc: func(ctx context.Context, userID string) (*domain.DiscordUser, error) {
			if userID != "123456789" {
				return nil, domain.ErrNotFound
			}
			return &domain.DiscordUser{ID: userID, Username: "pomelo"}, nil
		},
	}
	savedRepo := &mocks.MockSavedUsernameRepository{}
	profileRepo := &mocks.MockProfileRepository{}
	historyRepo := &mocks.MockHistoryRepository{}
	quotaRepo := &mocks.MockQuotaRepository{}

	checkUC := usecase.NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 2)
	apiCheckUC := usecase.NewAPICheckUseCase(checkUC, keyRepo, quotaRepo, profileRepo, historyRepo, nil, logger, usecase.APICheckConfig{
		MaxBatch:          10,
		RequestInterval:   time.Minute,
		FreeDailyLimit:    50,
		PremiumDailyLimit: 100,
	})

	router := NewRouter(logger, keyRepo, Handlers{
		Check:  handler.NewCheckHandler(checkUC, apiCheckUC, logger, "global-user", "Global", 10),
		Lookup: handler.NewLookupHandler(usecase.NewLookupUserUseCase(discord, nil, logger), logger),
		User:   handler.NewUserHandler(usecase.NewProfileUseCase(profileRepo, keyRepo, logger), logger),
		Stats:  handler.NewStatsHandler(usecase.NewStatsUseCase(tokenRepo, historyRepo, savedRepo, logger), logger),
		Saved:  handler.NewSavedHandler(usecase.NewSavedUseCase(savedRepo, logger), logger),
		Tokens: handler.NewTokenHandler(usecase.NewTokenUseCase(tokenRepo, logger), logger),
	})
	return router, keyRepo
}

func TestRouter_Health(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}

func TestRouter_GatedRoutesRequireKey(t *testing.T) {
	router, _ := newTestRouter(t)

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/v1/check"},
		{http.MethodGet, "/v1/user"},
		{http.MethodGet, "/v1/stats"},
		{http.MethodGet, "/v1/saved"},
		{http.MethodGet, "/v1/tokens"},
	}
	for _, route := range routes {
		t.Run(route.method+" "+route.path, func(t *testing.T) {
			req := httptest.NewRequest(route.method, route.path, nil)
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			if rr.Code != http.StatusUnauthorized {
				t.Fatalf("expected 401 without a key, got %d", rr.Code)
			}
		})
	}
}

func TestRouter_InternalCheckNeedsNoKey(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/internal/check", strings.NewReader(`{"usernames":["freename","claimed"]}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Success bool              `json:"success"`
		Results map[string]string `json:"results"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success {
		t.Error("expected success true")
	}
	if body.Results["freename"] != "available" || body.Results["claimed"] != "taken" {
		t.Errorf("unexpected results: %v", body.Results)
	}
}

func TestRouter_GatedCheckEndToEnd(t *testing.T) {
	router, keyRepo := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/check", strings.NewReader(`{"usernames":["freename"]}`))
	req.Header.Set("X-API-Key", "test-key")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	var body struct {
		Success           bool              `json:"success"`
		Results           map[string]string `json:"results"`
		RequestsRemaining int               `json:"requests_remaining"`
		DailyLimit        int               `json:"daily_limit"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if !body.Success || body.Results["freename"] != "available" {
		t.Errorf("unexpected body: %+v", body)
	}
	if body.DailyLimit != 50 || body.RequestsRemaining != 49 {
		t.Errorf("unexpected quota fields: %+v", body)
	}
	if len(keyRepo.TouchedIDs) != 1 {
		t.Errorf("expected key touch after a successful check, got %v", keyRepo.TouchedIDs)
	}
}

func TestRouter_LookupNeedsNoKey(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/lookup", strings.NewReader(`{"userId":"123456789"}`))
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}
}

func TestRouter_CORSPreflight(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/v1/check", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "X-API-Key, Content-Type")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK && rr.Code != http.StatusNoContent {
		t.Fatalf("expected pre-flight to pass, got %d", rr.Code)
	}
	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("expected wildcard origin, got %q", got)
	}
}

func TestRouter_SavedLifecycle(t *testing.T) {
	router, _ := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/saved", strings.NewReader(`{"username":"pomelo","notes":"grab later"}`))
	req.Header.Set("X-API-Key", "test-key")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rr.Code, rr.Body.String())
	}

	req = httptest.NewRequest(http.MethodGet, "/v1/saved", nil)
	req.Header.Set("X-API-Key", "test-key")
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
}
