package usecase

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/user/pomelo-checker/internal/domain"
	"github.com/user/pomelo-checker/internal/domain/mocks"
)

func TestTokens_ListRedactsSecrets(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &mocks.MockTokenRepository{
		UserTokens: []domain.UserToken{
			{ID: "t1", TokenName: "Global", TokenValue: "super-secret", IsActive: true, UsageCount: 12},
		},
	}
	uc := NewTokenUseCase(repo, logger)

	views, err := uc.List(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("expected 1 view, got %d", len(views))
	}
	if views[0].TokenName != "Global" || views[0].UsageCount != 12 {
		t.Errorf("unexpected view: %+v", views[0])
	}
}

func TestTokens_CreateValidation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &mocks.MockTokenRepository{}
	uc := NewTokenUseCase(repo, logger)

	tests := []struct {
		name       string
		tokenName  string
		tokenValue string
		wantErr    error
	}{
		{"ok", "Alt", "value", nil},
		{"missing name", "", "value", domain.ErrInvalidInput},
		{"missing value", "Alt", "", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view, err := uc.Create(context.Background(), "user-1", tt.tokenName, tt.tokenValue)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if view.ID == "" || !view.IsActive {
				t.Errorf("unexpected created view: %+v", view)
			}
		})
	}
	if len(repo.Created) != 1 {
		t.Errorf("expected one insert, got %d", len(repo.Created))
	}
}

func TestTokens_DeleteNotFound(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := &mocks.MockTokenRepository{DeleteErr: domain.ErrNotFound}
	uc := NewTokenUseCase(repo, logger)

	if err := uc.Delete(context.Background(), "user-1", "missing"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
