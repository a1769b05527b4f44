package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	intervalKeyPrefix = "ratelimit:interval:"
	dailyKeyPrefix    = "ratelimit:daily:"

	// Daily counters are kept past midnight so the previous day stays
	// inspectable, then expire on their own.
	dailyKeyTTL = 48 * time.Hour
)

// QuotaRepository implements the domain.QuotaRepository interface using Redis.
// Interval reservations use SET NX with expiry; daily counters use INCR on a
// per-day key so the rollover needs no reset job.
type QuotaRepository struct {
	client *redis.Client
	logger *slog.Logger
}

// NewQuotaRepository creates a new Redis-backed quota repository.
func NewQuotaRepository(client *redis.Client, logger *slog.Logger) *QuotaRepository {
	return &QuotaRepository{
		client: client,
		logger: logger.With("component", "quota_repository"),
	}
}

// ReserveInterval enforces a minimum spacing between requests for a key.
// Returns zero when the request may proceed, otherwise the remaining wait.
func (r *QuotaRepository) ReserveInterval(ctx context.Context, keyID string, interval time.Duration) (time.Duration, error) {
	key := intervalKeyPrefix + keyID

	ok, err := r.client.SetNX(ctx, key, 1, interval).Result()
	if err != nil {
		return 0, fmt.Errorf("reserve interval for key %s: %w", keyID, err)
	}
	if ok {
		return 0, nil
	}

	ttl, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("read interval ttl for key %s: %w", keyID, err)
	}
	if ttl < 0 {
		// Key expired between SETNX and TTL; let the request through.
		return 0, nil
	}
	return ttl, nil
}

// UsedToday returns the number of requests counted for the key on the given UTC day.
func (r *QuotaRepository) UsedToday(ctx context.Context, keyID string, day time.Time) (int, error) {
	used, err := r.client.Get(ctx, r.dailyKey(keyID, day)).Int()
	if err == redis.Nil {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read daily counter for key %s: %w", keyID, err)
	}
	return used, nil
}

// IncrementDaily adds one request to the key's counter for the given UTC day.
func (r *QuotaRepository) IncrementDaily(ctx context.Context, keyID string, day time.Time) (int, error) {
	key := r.dailyKey(keyID, day)

	total, err := r.client.Incr(ctx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("increment daily counter for key %s: %w", keyID, err)
	}
	if total == 1 {
		if err := r.client.Expire(ctx, key, dailyKeyTTL).Err(); err != nil {
			r.logger.Warn("failed to set expiry on daily counter", "key", key, "error", err)
		}
	}
	return int(total), nil
}

func (r *QuotaRepository) dailyKey(keyID string, day time.Time) string {
	return dailyKeyPrefix + keyID + ":" + day.UTC().Format("2006-01-02")
}
