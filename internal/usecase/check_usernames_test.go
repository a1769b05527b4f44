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

func boolPtr(b bool) *bool { return &b }

func activeToken() *domain.UserToken {
	return &domain.UserToken{
		ID:         "token-1",
		UserID:     "user-1",
		TokenName:  "Global",
		TokenValue: "secret",
		IsActive:   true,
	}
}

func TestCheckUsernames_Labels(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	discord := &mocks.MockDiscordClient{
		CheckFunc: func(ctx context.Context, token, username string) (domain.ProbeResult, error) {
			switch username {
			case "alpha":
				return domain.ProbeResult{StatusCode: 200, Taken: boolPtr(false)}, nil
			case "bravo":
				return domain.ProbeResult{StatusCode: 200, Taken: boolPtr(true)}, nil
			case "charlie":
				return domain.ProbeResult{StatusCode: 429}, nil
			case "delta":
				return domain.ProbeResult{}, errors.New("connection reset")
			case "echo":
				// No "taken" field in the upstream body.
				return domain.ProbeResult{StatusCode: 200}, nil
			}
			t.Fatalf("unexpected username %q", username)
			return domain.ProbeResult{}, nil
		},
	}
	tokenRepo := &mocks.MockTokenRepository{ActiveToken: activeToken()}
	uc := NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 3)

	usernames := []string{"alpha", "bravo", "charlie", "delta", "echo"}
	results, err := uc.Check(context.Background(), "user-1", "Global", usernames)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	want := map[string]domain.Label{
		"alpha":   domain.LabelAvailable,
		"bravo":   domain.LabelTaken,
		"charlie": domain.LabelRateLimited,
		"delta":   domain.LabelError,
		"echo":    domain.LabelTaken,
	}
	if len(results) != len(want) {
		t.Fatalf("expected %d results, got %d", len(want), len(results))
	}
	for username, label := range want {
		if results[username] != label {
			t.Errorf("username %q: got label %q, want %q", username, results[username], label)
		}
	}

	if tokenRepo.UsageAdded != len(usernames) {
		t.Errorf("expected usage counter to grow by %d (input count), got %d", len(usernames), tokenRepo.UsageAdded)
	}
	if tokenRepo.UsageID != "token-1" {
		t.Errorf("usage recorded against wrong token: %q", tokenRepo.UsageID)
	}
}

func TestCheckUsernames_TokenInvalidDeactivatesOnce(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	discord := &mocks.MockDiscordClient{
		CheckFunc: func(ctx context.Context, token, username string) (domain.ProbeResult, error) {
			return domain.ProbeResult{StatusCode: 401}, nil
		},
	}
	tokenRepo := &mocks.MockTokenRepository{ActiveToken: activeToken()}
	uc := NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 4)

	results, err := uc.Check(context.Background(), "user-1", "Global", []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	for username, label := range results {
		if label != domain.LabelTokenInvalid {
			t.Errorf("username %q: got label %q, want %q", username, label, domain.LabelTokenInvalid)
		}
	}
	if len(tokenRepo.DeactivatedIDs) != 1 {
		t.Errorf("expected exactly one deactivation attempt, got %d", len(tokenRepo.DeactivatedIDs))
	}
	if len(tokenRepo.DeactivatedIDs) > 0 && tokenRepo.DeactivatedIDs[0] != "token-1" {
		t.Errorf("deactivated wrong token: %q", tokenRepo.DeactivatedIDs[0])
	}
}

func TestCheckUsernames_ForbiddenAlsoInvalidatesToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	discord := &mocks.MockDiscordClient{
		CheckFunc: func(ctx context.Context, token, username string) (domain.ProbeResult, error) {
			return domain.ProbeResult{StatusCode: 403}, nil
		},
	}
	tokenRepo := &mocks.MockTokenRepository{ActiveToken: activeToken()}
	uc := NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 1)

	results, err := uc.Check(context.Background(), "user-1", "Global", []string{"a"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results["a"] != domain.LabelTokenInvalid {
		t.Errorf("got label %q, want %q", results["a"], domain.LabelTokenInvalid)
	}
	if len(tokenRepo.DeactivatedIDs) != 1 {
		t.Errorf("expected one deactivation, got %d", len(tokenRepo.DeactivatedIDs))
	}
}

func TestCheckUsernames_DuplicateInputsCollapse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	discord := &mocks.MockDiscordClient{
		CheckFunc: func(ctx context.Context, token, username string) (domain.ProbeResult, error) {
			return domain.ProbeResult{StatusCode: 200, Taken: boolPtr(false)}, nil
		},
	}
	tokenRepo := &mocks.MockTokenRepository{ActiveToken: activeToken()}
	uc := NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 2)

	results, err := uc.Check(context.Background(), "user-1", "", []string{"same", "same", "same"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(results) != 1 {
		t.Errorf("expected duplicates to collapse onto one key, got %d keys", len(results))
	}
	if results["same"] != domain.LabelAvailable {
		t.Errorf("got label %q, want %q", results["same"], domain.LabelAvailable)
	}
	// Usage counts processed items, including duplicates.
	if tokenRepo.UsageAdded != 3 {
		t.Errorf("expected usage of 3, got %d", tokenRepo.UsageAdded)
	}
}

func TestCheckUsernames_NoActiveToken(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	discord := &mocks.MockDiscordClient{}
	tokenRepo := &mocks.MockTokenRepository{} // no active token
	uc := NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 2)

	_, err := uc.Check(context.Background(), "user-1", "Global", []string{"a"})
	if !errors.Is(err, domain.ErrNoActiveToken) {
		t.Fatalf("expected ErrNoActiveToken, got %v", err)
	}
	if len(discord.CheckCalls) != 0 {
		t.Errorf("expected no probes without a token, got %d", len(discord.CheckCalls))
	}
}

func TestCheckUsernames_EmptyInput(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	uc := NewCheckUsernamesUseCase(&mocks.MockTokenRepository{ActiveToken: activeToken()}, &mocks.MockDiscordClient{}, nil, logger, 2)

	_, err := uc.Check(context.Background(), "user-1", "Global", nil)
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCheckUsernames_ErrorIsolation(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	discord := &mocks.MockDiscordClient{
		CheckFunc: func(ctx context.Context, token, username string) (domain.ProbeResult, error) {
			if username == "bad" {
				return domain.ProbeResult{}, errors.New("timeout")
			}
			return domain.ProbeResult{StatusCode: 200, Taken: boolPtr(true)}, nil
		},
	}
	tokenRepo := &mocks.MockTokenRepository{ActiveToken: activeToken()}
	uc := NewCheckUsernamesUseCase(tokenRepo, discord, nil, logger, 2)

	results, err := uc.Check(context.Background(), "user-1", "Global", []string{"bad", "good"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if results["bad"] != domain.LabelError {
		t.Errorf("bad item: got %q, want %q", results["bad"], domain.LabelError)
	}
	if results["good"] != domain.LabelTaken {
		t.Errorf("sibling item affected by failure: got %q, want %q", results["good"], domain.LabelTaken)
	}
}
