package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/user/pomelo-checker/internal/domain"
	"github.com/user/pomelo-checker/internal/domain/mocks"
)

func TestAuth(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	repo := &mocks.MockAPIKeyRepository{
		Keys: map[string]*domain.APIKey{
			"good-key": {ID: "k1", UserID: "user-1", Status: domain.KeyStatusActive},
		},
	}

	var principal *domain.APIKey
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, _ = Principal(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth(repo, logger)(next)

	tests := []struct {
		name       string
		apiKey     string
		wantStatus int
		wantError  string
	}{
		{"missing header", "", http.StatusUnauthorized, "API key is required"},
		{"unknown key", "bad-key", http.StatusUnauthorized, "Invalid or inactive API key"},
		{"valid key", "good-key", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal = nil
			req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
			if tt.apiKey != "" {
				req.Header.Set(APIKeyHeader, tt.apiKey)
			}
			rr := httptest.NewRecorder()
			handler.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d", tt.wantStatus, rr.Code)
			}
			if tt.wantError != "" {
				var body map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, body["error"])
				}
			}
			if tt.wantStatus == http.StatusOK {
				if principal == nil || principal.ID != "k1" {
					t.Errorf("expected principal k1 in context, got %+v", principal)
				}
			}
		})
	}
}

func TestAuth_MissingHeaderSkipsLookup(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &mocks.MockAPIKeyRepository{}

	handler := Auth(repo, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/v1/stats", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rr.Code)
	}
	if repo.FindCalls != 0 {
		t.Errorf("expected no store lookup without a header, got %d calls", repo.FindCalls)
	}
}
