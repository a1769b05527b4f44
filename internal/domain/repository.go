package domain

import (
	"context"
	"time"
)

// APIKeyRepository resolves and updates caller credentials.
type APIKeyRepository interface {
	// FindActive resolves an API key string to its record. Returns
	// ErrUnauthorized when no active record matches.
	// Implementations should handle caching to reduce database load.
	FindActive(ctx context.Context, key string) (*APIKey, error)

	// ListForUser returns every key owned by the principal.
	ListForUser(ctx context.Context, userID string) ([]APIKey, error)

	// TouchRequest bumps requests_today and stamps the last request time.
	TouchRequest(ctx context.Context, id string, at time.Time) error
}

// TokenRepository manages Discord account tokens.
type TokenRepository interface {
	// FindActive resolves exactly one active token for the principal and
	// token name. Returns ErrNoActiveToken when absent.
	FindActive(ctx context.Context, userID, tokenName string) (*UserToken, error)

	ListForUser(ctx context.Context, userID string) ([]UserToken, error)
	Create(ctx context.Context, token *UserToken) error
	Delete(ctx context.Context, userID, id string) error

	// Deactivate flips the active flag off. Idempotent; concurrent calls for
	// the same token are safe.
	Deactivate(ctx context.Context, id string) error

	// RecordUsage adds n to the usage counter and stamps last_used_at.
	// The counter is monotonically non-decreasing and counts processed
	// items, not successes.
	RecordUsage(ctx context.Context, id string, n int, at time.Time) error
}

// SavedUsernameRepository manages a principal's bookmarked usernames.
type SavedUsernameRepository interface {
	ListForUser(ctx context.Context, userID string) ([]SavedUsername, error)
	CountForUser(ctx context.Context, userID string) (int, error)
	Create(ctx context.Context, saved *SavedUsername) error
	Update(ctx context.Context, userID, id string, notes *string, isClaimed *bool) error
	Delete(ctx context.Context, userID, id string) error
}

// ProfileRepository reads principal identity and subscription rows.
// Absent rows are reported as ErrNotFound, which aggregation treats as a
// zero value, never as a failure.
type ProfileRepository interface {
	Find(ctx context.Context, userID string) (*Profile, error)
	FindActiveSubscription(ctx context.Context, userID string) (*Subscription, error)
}

// HistoryRepository persists check outcomes and API call logs.
type HistoryRepository interface {
	InsertCheck(ctx context.Context, rec *CheckRecord) error
	CountChecks(ctx context.Context, userID string) (CheckCounts, error)
	InsertAPILog(ctx context.Context, entry *APILogEntry) error

	// LastAPIRequest returns the most recent api_logs timestamp for the
	// principal, or nil when none exists.
	LastAPIRequest(ctx context.Context, userID string) (*time.Time, error)
}

// QuotaRepository tracks per-key request spacing and daily usage.
type QuotaRepository interface {
	// ReserveInterval enforces a minimum spacing between requests for a key.
	// A zero return means the request may proceed; a positive duration is
	// the remaining wait.
	ReserveInterval(ctx context.Context, keyID string, interval time.Duration) (time.Duration, error)

	// UsedToday returns the number of requests counted for the key on the
	// given UTC day.
	UsedToday(ctx context.Context, keyID string, day time.Time) (int, error)

	// IncrementDaily adds one request to the key's counter for the given
	// UTC day and returns the new total.
	IncrementDaily(ctx context.Context, keyID string, day time.Time) (int, error)
}
