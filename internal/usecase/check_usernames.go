package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/user/pomelo-checker/internal/adapter/metrics"
	"github.com/user/pomelo-checker/internal/domain"
)

const defaultTokenName = "Global"

// CheckUsernamesUseCase fans out availability probes for a batch of
// usernames using one of the principal's Discord tokens.
type CheckUsernamesUseCase struct {
	tokens      domain.TokenRepository
	discord     domain.DiscordClient
	metrics     *metrics.CheckerMetrics
	logger      *slog.Logger
	concurrency int
}

// NewCheckUsernamesUseCase creates a new batch checker. concurrency bounds
// the number of in-flight probes per batch.
func NewCheckUsernamesUseCase(
	tokens domain.TokenRepository,
	discord domain.DiscordClient,
	m *metrics.CheckerMetrics,
	logger *slog.Logger,
	concurrency int,
) *CheckUsernamesUseCase {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &CheckUsernamesUseCase{
		tokens:      tokens,
		discord:     discord,
		metrics:     m,
		logger:      logger,
		concurrency: concurrency,
	}
}

// Check probes every username concurrently and returns a label per input.
// Every input key appears exactly once in the result; duplicate inputs
// collapse onto one key. A failed probe yields the error label for that item
// only and never aborts its siblings.
func (uc *CheckUsernamesUseCase) Check(ctx context.Context, userID, tokenName string, usernames []string) (map[string]domain.Label, error) {
	if len(usernames) == 0 {
		return nil, domain.ErrInvalidInput
	}
	if tokenName == "" {
		tokenName = defaultTokenName
	}

	token, err := uc.tokens.FindActive(ctx, userID, tokenName)
	if err != nil {
		return nil, err
	}

	labels := make([]domain.Label, len(usernames))
	var deactivated atomic.Bool

	// Plain errgroup, no WithContext: a failing item must not cancel its
	// siblings, and workers only ever return nil.
	g := new(errgroup.Group)
	g.SetLimit(uc.concurrency)
	for i, username := range usernames {
		i, username := i, username
		g.Go(func() error {
			labels[i] = uc.checkOne(ctx, token, username, &deactivated)
			return nil
		})
	}
	_ = g.Wait()

	// The counter tracks processed items, not successes.
	if err := uc.tokens.RecordUsage(ctx, token.ID, len(usernames), time.Now().UTC()); err != nil {
		uc.logger.Warn("failed to record token usage", "token_id", token.ID, "error", err)
	}

	results := make(map[string]domain.Label, len(usernames))
	for i, username := range usernames {
		results[username] = labels[i]
	}
	return results, nil
}

func (uc *CheckUsernamesUseCase) checkOne(ctx context.Context, token *domain.UserToken, username string, deactivated *atomic.Bool) domain.Label {
	label := uc.classify(ctx, token, username, deactivated)
	if uc.metrics != nil {
		uc.metrics.ChecksTotal.WithLabelValues(string(label)).Inc()
	}
	return label
}

func (uc *CheckUsernamesUseCase) classify(ctx context.Context, token *domain.UserToken, username string, deactivated *atomic.Bool) domain.Label {
	res, err := uc.discord.CheckUsername(ctx, token.TokenValue, username)
	if err != nil {
		uc.logger.Warn("username probe failed", "username", username, "error", err)
		return domain.LabelError
	}

	switch res.StatusCode {
	case http.StatusTooManyRequests:
		return domain.LabelRateLimited
	case http.StatusUnauthorized, http.StatusForbidden:
		// Deactivation is attempted once per batch; the update itself is
		// idempotent, so a lost race is harmless.
		if deactivated.CompareAndSwap(false, true) {
			if err := uc.tokens.Deactivate(ctx, token.ID); err != nil {
				uc.logger.Warn("failed to deactivate token", "token_id", token.ID, "error", err)
			}
		}
		return domain.LabelTokenInvalid
	}

	if res.Taken != nil && !*res.Taken {
		return domain.LabelAvailable
	}
	return domain.LabelTaken
}
