package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/user/pomelo-checker/internal/adapter/metrics"
	"github.com/user/pomelo-checker/internal/domain"
)

// LookupUserUseCase resolves one Discord identity by numeric ID.
type LookupUserUseCase struct {
	discord domain.DiscordClient
	metrics *metrics.CheckerMetrics
	logger  *slog.Logger
}

// NewLookupUserUseCase creates a new lookup usecase.
func NewLookupUserUseCase(discord domain.DiscordClient, m *metrics.CheckerMetrics, logger *slog.Logger) *LookupUserUseCase {
	return &LookupUserUseCase{discord: discord, metrics: m, logger: logger}
}

// Lookup fetches and normalizes one user. ErrNotFound and UpstreamError pass
// through for the handler to map onto HTTP statuses.
func (uc *LookupUserUseCase) Lookup(ctx context.Context, userID string) (*domain.DiscordUser, error) {
	if userID == "" {
		return nil, domain.ErrInvalidInput
	}

	user, err := uc.discord.LookupUser(ctx, userID)
	if err != nil {
		uc.countLookup(err)
		return nil, err
	}
	uc.countLookup(nil)
	return user, nil
}

func (uc *LookupUserUseCase) countLookup(err error) {
	if uc.metrics == nil {
		return
	}
	var upstream *domain.UpstreamError
	switch {
	case err == nil:
		uc.metrics.LookupsTotal.WithLabelValues("ok").Inc()
	case errors.Is(err, domain.ErrNotFound):
		uc.metrics.LookupsTotal.WithLabelValues("not_found").Inc()
	case errors.As(err, &upstream):
		uc.metrics.LookupsTotal.WithLabelValues("upstream_error").Inc()
	default:
		uc.metrics.LookupsTotal.WithLabelValues("error").Inc()
	}
}
