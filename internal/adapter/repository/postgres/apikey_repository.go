package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/user/pomelo-checker/internal/adapter/metrics"
	"github.com/user/pomelo-checker/internal/domain"
)

type cacheEntry struct {
	key       *domain.APIKey
	expiresAt time.Time
}

// APIKeyRepository implements the domain.APIKeyRepository interface using PostgreSQL
// as the source of truth and an in-memory, time-based cache for key resolution.
type APIKeyRepository struct {
	db       *sql.DB
	logger   *slog.Logger
	cache    map[string]cacheEntry
	mu       sync.RWMutex
	cacheTTL time.Duration
	metrics  *metrics.CheckerMetrics
}

// NewAPIKeyRepository creates a new instance of the PostgreSQL API key repository.
func NewAPIKeyRepository(db *sql.DB, logger *slog.Logger, cacheTTL time.Duration, m *metrics.CheckerMetrics) *APIKeyRepository {
	return &APIKeyRepository{
		db:       db,
		logger:   logger,
		cache:    make(map[string]cacheEntry),
		cacheTTL: cacheTTL,
		metrics:  m,
	}
}

// FindActive resolves an API key string to its record. It first checks a local
// cache and falls back to the database if the key is not found or the cache
// entry has expired. A nil cached record means the key was recently rejected.
func (r *APIKeyRepository) FindActive(ctx context.Context, key string) (*domain.APIKey, error) {
	// 1. Check cache with a read lock
	r.mu.RLock()
	entry, found := r.cache[key]
	r.mu.RUnlock()

	if found && time.Now().Before(entry.expiresAt) {
		if r.metrics != nil {
			r.metrics.APIKeyCacheHits.Inc()
		}
		if entry.key == nil {
			return nil, domain.ErrUnauthorized
		}
		return entry.key, nil
	}

	// 2. Cache miss or expired, query DB and update cache with a write lock
	if r.metrics != nil {
		r.metrics.APIKeyCacheMisses.Inc()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	// Double-check cache in case another goroutine populated it while waiting for the lock
	entry, found = r.cache[key]
	if found && time.Now().Before(entry.expiresAt) {
		if entry.key == nil {
			return nil, domain.ErrUnauthorized
		}
		return entry.key, nil
	}

	// 3. Query the database
	record, err := r.queryActive(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			r.cache[key] = cacheEntry{key: nil, expiresAt: time.Now().Add(r.cacheTTL)}
			return nil, err
		}
		r.logger.Error("failed to resolve API key in database", "error", err)
		// Don't cache errors, let the next request retry from the DB
		return nil, err
	}

	// 4. Update cache
	r.cache[key] = cacheEntry{key: record, expiresAt: time.Now().Add(r.cacheTTL)}

	return record, nil
}

func (r *APIKeyRepository) queryActive(ctx context.Context, key string) (*domain.APIKey, error) {
	query := `SELECT id, user_id, api_key, label, status, requests_today, daily_limit,
			last_request_at, last_used_at, created_at
		FROM api_keys
		WHERE api_key = $1 AND status = 'active'`

	var k domain.APIKey
	err := r.db.QueryRowContext(ctx, query, key).Scan(
		&k.ID, &k.UserID, &k.Key, &k.Label, &k.Status,
		&k.RequestsToday, &k.DailyLimit, &k.LastRequestAt, &k.LastUsedAt, &k.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUnauthorized
	}
	if err != nil {
		return nil, err
	}
	return &k, nil
}

// ListForUser returns every key owned by the principal, newest first.
func (r *APIKeyRepository) ListForUser(ctx context.Context, userID string) ([]domain.APIKey, error) {
	query := `SELECT id, user_id, api_key, label, status, requests_today, daily_limit,
			last_request_at, last_used_at, created_at
		FROM api_keys
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var keys []domain.APIKey
	for rows.Next() {
		var k domain.APIKey
		if err := rows.Scan(
			&k.ID, &k.UserID, &k.Key, &k.Label, &k.Status,
			&k.RequestsToday, &k.DailyLimit, &k.LastRequestAt, &k.LastUsedAt, &k.CreatedAt,
		); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// TouchRequest bumps requests_today and stamps the request time. The cached
// entry is invalidated so quota fields stay fresh for the next lookup.
func (r *APIKeyRepository) TouchRequest(ctx context.Context, id string, at time.Time) error {
	query := `UPDATE api_keys
		SET requests_today = requests_today + 1,
			last_request_at = $2,
			last_used_at = $2
		WHERE id = $1`

	var cachedKey string
	if _, err := r.db.ExecContext(ctx, query, id, at); err != nil {
		return err
	}

	r.mu.Lock()
	for k, entry := range r.cache {
		if entry.key != nil && entry.key.ID == id {
			cachedKey = k
			break
		}
	}
	if cachedKey != "" {
		delete(r.cache, cachedKey)
	}
	r.mu.Unlock()

	return nil
}
