package usecase

import (
	"context"
	"log/slog"

	"github.com/user/pomelo-checker/internal/domain"
)

// StatsUseCase recomputes a principal's usage aggregates per request.
// Nothing is cached; every call reads the record store.
type StatsUseCase struct {
	tokens  domain.TokenRepository
	history domain.HistoryRepository
	saved   domain.SavedUsernameRepository
	logger  *slog.Logger
}

// NewStatsUseCase creates a new stats aggregation usecase.
func NewStatsUseCase(
	tokens domain.TokenRepository,
	history domain.HistoryRepository,
	saved domain.SavedUsernameRepository,
	logger *slog.Logger,
) *StatsUseCase {
	return &StatsUseCase{tokens: tokens, history: history, saved: saved, logger: logger}
}

// Get builds the stats view for the principal.
func (uc *StatsUseCase) Get(ctx context.Context, userID string) (*domain.Stats, error) {
	tokens, err := uc.tokens.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.Stats{}
	stats.Tokens.Total = len(tokens)
	for _, t := range tokens {
		if t.IsActive {
			stats.Tokens.Active++
		}
	}
	stats.Tokens.Inactive = stats.Tokens.Total - stats.Tokens.Active

	counts, err := uc.history.CountChecks(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.Checks = counts

	savedCount, err := uc.saved.CountForUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.SavedUsernames = savedCount

	last, err := uc.history.LastAPIRequest(ctx, userID)
	if err != nil {
		return nil, err
	}
	stats.LastAPIRequest = last

	return stats, nil
}
