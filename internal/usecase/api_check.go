package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/user/pomelo-checker/internal/adapter/metrics"
	"github.com/user/pomelo-checker/internal/domain"
)

// APICheckResult is the response payload of the key-gated check endpoint.
type APICheckResult struct {
	Results           map[string]domain.Label `json:"results"`
	RequestsRemaining int                     `json:"requests_remaining"`
	DailyLimit        int                     `json:"daily_limit"`
}

// APICheckConfig carries the quota knobs for the gated checker.
type APICheckConfig struct {
	MaxBatch          int
	RequestInterval   time.Duration
	FreeDailyLimit    int
	PremiumDailyLimit int
}

// APICheckUseCase wraps the batch checker with per-key request spacing,
// daily quotas, and audit logging for external callers.
type APICheckUseCase struct {
	checker  *CheckUsernamesUseCase
	keys     domain.APIKeyRepository
	quota    domain.QuotaRepository
	profiles domain.ProfileRepository
	history  domain.HistoryRepository
	metrics  *metrics.CheckerMetrics
	logger   *slog.Logger
	cfg      APICheckConfig
}

// NewAPICheckUseCase creates the gated batch checker.
func NewAPICheckUseCase(
	checker *CheckUsernamesUseCase,
	keys domain.APIKeyRepository,
	quota domain.QuotaRepository,
	profiles domain.ProfileRepository,
	history domain.HistoryRepository,
	m *metrics.CheckerMetrics,
	logger *slog.Logger,
	cfg APICheckConfig,
) *APICheckUseCase {
	return &APICheckUseCase{
		checker:  checker,
		keys:     keys,
		quota:    quota,
		profiles: profiles,
		history:  history,
		metrics:  m,
		logger:   logger,
		cfg:      cfg,
	}
}

// Check enforces the caller's quota, runs the batch, and records history.
// Quota rejections surface as RateLimitError or QuotaError before any
// Discord call is made.
func (uc *APICheckUseCase) Check(ctx context.Context, key *domain.APIKey, tokenName string, usernames []string) (*APICheckResult, error) {
	if len(usernames) == 0 || len(usernames) > uc.cfg.MaxBatch {
		return nil, domain.ErrInvalidInput
	}

	wait, err := uc.quota.ReserveInterval(ctx, key.ID, uc.cfg.RequestInterval)
	if err != nil {
		return nil, err
	}
	if wait > 0 {
		if uc.metrics != nil {
			uc.metrics.QuotaRejections.WithLabelValues("interval").Inc()
		}
		return nil, &domain.RateLimitError{RetryAfter: wait}
	}

	limit := uc.dailyLimit(ctx, key.UserID)
	now := time.Now().UTC()

	used, err := uc.quota.UsedToday(ctx, key.ID, now)
	if err != nil {
		return nil, err
	}
	if used >= limit {
		if uc.metrics != nil {
			uc.metrics.QuotaRejections.WithLabelValues("daily_limit").Inc()
		}
		uc.logRequest(ctx, key, tokenName, usernames, 429, "daily limit reached", now)
		return nil, &domain.QuotaError{Limit: limit, Used: used}
	}

	results, err := uc.checker.Check(ctx, key.UserID, tokenName, usernames)
	if err != nil {
		uc.logRequest(ctx, key, tokenName, usernames, 404, err.Error(), now)
		return nil, err
	}

	uc.recordHistory(ctx, key.UserID, results, now)

	used, err = uc.quota.IncrementDaily(ctx, key.ID, now)
	if err != nil {
		uc.logger.Warn("failed to increment daily counter", "key_id", key.ID, "error", err)
		used++
	}
	if err := uc.keys.TouchRequest(ctx, key.ID, now); err != nil {
		uc.logger.Warn("failed to touch api key", "key_id", key.ID, "error", err)
	}
	uc.logRequest(ctx, key, tokenName, usernames, 200, "", now)

	return &APICheckResult{
		Results:           results,
		RequestsRemaining: limit - used,
		DailyLimit:        limit,
	}, nil
}

func (uc *APICheckUseCase) dailyLimit(ctx context.Context, userID string) int {
	sub, err := uc.profiles.FindActiveSubscription(ctx, userID)
	if err != nil {
		// No subscription row means a free plan, never a failure.
		return uc.cfg.FreeDailyLimit
	}
	if sub.IsPremium() {
		return uc.cfg.PremiumDailyLimit
	}
	return uc.cfg.FreeDailyLimit
}

// recordHistory persists one row per definitive outcome. Items that never
// reached a verdict (rate limited, bad token, transport error) are not
// history.
func (uc *APICheckUseCase) recordHistory(ctx context.Context, userID string, results map[string]domain.Label, at time.Time) {
	for username, label := range results {
		if label != domain.LabelAvailable && label != domain.LabelTaken {
			continue
		}
		rec := &domain.CheckRecord{
			ID:              uuid.NewString(),
			UserID:          userID,
			UsernameChecked: username,
			IsAvailable:     label == domain.LabelAvailable,
			CheckedAt:       at,
		}
		if err := uc.history.InsertCheck(ctx, rec); err != nil {
			uc.logger.Warn("failed to insert check history", "username", username, "error", err)
		}
	}
}

func (uc *APICheckUseCase) logRequest(ctx context.Context, key *domain.APIKey, tokenName string, usernames []string, status int, errMsg string, start time.Time) {
	entry := &domain.APILogEntry{
		ID:               uuid.NewString(),
		APIKeyID:         key.ID,
		UserID:           key.UserID,
		Endpoint:         "/v1/check",
		TokenName:        tokenName,
		UsernamesChecked: usernames,
		StatusCode:       status,
		ErrorMessage:     errMsg,
		ProcessingTime:   time.Since(start),
		CreatedAt:        time.Now().UTC(),
	}
	if err := uc.history.InsertAPILog(ctx, entry); err != nil {
		uc.logger.Warn("failed to insert api log", "key_id", key.ID, "error", err)
	}
}
