package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/user/pomelo-checker/internal/domain"
)

type mockUserLookup struct {
	user *domain.DiscordUser
	err  error
}

func (m *mockUserLookup) Lookup(ctx context.Context, userID string) (*domain.DiscordUser, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.user, nil
}

func TestLookupHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		lookup     *mockUserLookup
		wantStatus int
		wantError  string
	}{
		{
			name:       "found",
			body:       `{"userId":"123456789"}`,
			lookup:     &mockUserLookup{user: &domain.DiscordUser{ID: "123456789", Username: "pomelo"}},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing user id",
			body:       `{}`,
			lookup:     &mockUserLookup{},
			wantStatus: http.StatusBadRequest,
			wantError:  "User ID is required",
		},
		{
			name:       "malformed body",
			body:       `{"userId":`,
			lookup:     &mockUserLookup{},
			wantStatus: http.StatusBadRequest,
			wantError:  "User ID is required",
		},
		{
			name:       "not found",
			body:       `{"userId":"999"}`,
			lookup:     &mockUserLookup{err: domain.ErrNotFound},
			wantStatus: http.StatusNotFound,
			wantError:  "User not found",
		},
		{
			name:       "upstream failure",
			body:       `{"userId":"123"}`,
			lookup:     &mockUserLookup{err: &domain.UpstreamError{StatusCode: http.StatusBadGateway}},
			wantStatus: http.StatusBadGateway,
			wantError:  "Failed to fetch user data from Discord",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewLookupHandler(tt.lookup, discardLogger())

			req := httptest.NewRequest(http.MethodPost, "/v1/lookup", strings.NewReader(tt.body))
			rr := httptest.NewRecorder()
			h.ServeHTTP(rr, req)

			if rr.Code != tt.wantStatus {
				t.Fatalf("expected status %d, got %d: %s", tt.wantStatus, rr.Code, rr.Body.String())
			}

			if tt.wantError != "" {
				var body map[string]string
				if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
					t.Fatalf("failed to decode body: %v", err)
				}
				if body["error"] != tt.wantError {
					t.Errorf("expected error %q, got %q", tt.wantError, body["error"])
				}
				return
			}

			var user domain.DiscordUser
			if err := json.NewDecoder(rr.Body).Decode(&user); err != nil {
				t.Fatalf("failed to decode body: %v", err)
			}
			if user.ID != "123456789" || user.Username != "pomelo" {
				t.Errorf("unexpected user: %+v", user)
			}
		})
	}
}
