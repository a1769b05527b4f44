package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/user/pomelo-checker/internal/domain"
)

// TokenView is a token row with the secret value redacted.
type TokenView struct {
	ID         string     `json:"id"`
	TokenName  string     `json:"token_name"`
	IsActive   bool       `json:"is_active"`
	UsageCount int        `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

// TokenUseCase manages a principal's Discord tokens.
type TokenUseCase struct {
	tokens domain.TokenRepository
	logger *slog.Logger
}

// NewTokenUseCase creates a new token management usecase.
func NewTokenUseCase(tokens domain.TokenRepository, logger *slog.Logger) *TokenUseCase {
	return &TokenUseCase{tokens: tokens, logger: logger}
}

// List returns the principal's tokens with secret values stripped.
func (uc *TokenUseCase) List(ctx context.Context, userID string) ([]TokenView, error) {
	tokens, err := uc.tokens.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	views := make([]TokenView, len(tokens))
	for i, t := range tokens {
		views[i] = TokenView{
			ID:         t.ID,
			TokenName:  t.TokenName,
			IsActive:   t.IsActive,
			UsageCount: t.UsageCount,
			LastUsedAt: t.LastUsedAt,
			CreatedAt:  t.CreatedAt,
		}
	}
	return views, nil
}

// Create registers a new active token for the principal.
func (uc *TokenUseCase) Create(ctx context.Context, userID, tokenName, tokenValue string) (*TokenView, error) {
	if tokenName == "" || tokenValue == "" {
		return nil, domain.ErrInvalidInput
	}
	token := &domain.UserToken{
		ID:         uuid.NewString(),
		UserID:     userID,
		TokenName:  tokenName,
		TokenValue: tokenValue,
		IsActive:   true,
		CreatedAt:  time.Now().UTC(),
	}
	if err := uc.tokens.Create(ctx, token); err != nil {
		return nil, err
	}
	return &TokenView{
		ID:        token.ID,
		TokenName: token.TokenName,
		IsActive:  token.IsActive,
		CreatedAt: token.CreatedAt,
	}, nil
}

// Delete removes a token owned by the principal.
func (uc *TokenUseCase) Delete(ctx context.Context, userID, id string) error {
	return uc.tokens.Delete(ctx, userID, id)
}
