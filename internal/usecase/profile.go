package usecase

import (
	"context"
	"errors"
	"log/slog"

	"github.com/user/pomelo-checker/internal/domain"
)

// ProfileUseCase folds a principal's profile, subscription, and key usage
// into one view. Read-only.
type ProfileUseCase struct {
	profiles domain.ProfileRepository
	keys     domain.APIKeyRepository
	logger   *slog.Logger
}

// NewProfileUseCase creates a new profile aggregation usecase.
func NewProfileUseCase(profiles domain.ProfileRepository, keys domain.APIKeyRepository, logger *slog.Logger) *ProfileUseCase {
	return &ProfileUseCase{profiles: profiles, keys: keys, logger: logger}
}

// Get builds the profile view for the principal behind the given key.
// Absent rows (no profile, no subscription) are zero values, never errors.
func (uc *ProfileUseCase) Get(ctx context.Context, key *domain.APIKey) (*domain.ProfileView, error) {
	view := &domain.ProfileView{
		APIStats: domain.KeyStats{
			DailyLimit:        key.DailyLimit,
			RequestsToday:     key.RequestsToday,
			RequestsRemaining: key.DailyLimit - key.RequestsToday,
		},
	}

	profile, err := uc.profiles.Find(ctx, key.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if profile != nil {
		view.Username = profile.Username
		view.CreatedAt = profile.CreatedAt
		view.AvatarURL = profile.AvatarURL
	}

	sub, err := uc.profiles.FindActiveSubscription(ctx, key.UserID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}
	if sub.IsPremium() {
		view.IsPremium = true
		view.PremiumPlan = &sub.Plan
		view.PremiumExpires = &sub.CurrentPeriodEnd
	}

	allKeys, err := uc.keys.ListForUser(ctx, key.UserID)
	if err != nil {
		return nil, err
	}
	view.APIStats.TotalKeys = len(allKeys)
	for _, k := range allKeys {
		if k.Status == domain.KeyStatusActive {
			view.APIStats.ActiveKeys++
		}
	}

	return view, nil
}
