package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/user/pomelo-checker/internal/domain"
)

// ProfileRepository implements domain.ProfileRepository against PostgreSQL.
type ProfileRepository struct {
	db *sql.DB
}

// NewProfileRepository creates a new PostgreSQL profile repository.
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Find returns the principal's profile row.
func (r *ProfileRepository) Find(ctx context.Context, userID string) (*domain.Profile, error) {
	var p domain.Profile
	err := r.db.QueryRowContext(ctx,
		`SELECT id, username, avatar_url, created_at FROM profiles WHERE id = $1`,
		userID).Scan(&p.ID, &p.Username, &p.AvatarURL, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// FindActiveSubscription returns the principal's active subscription row.
// No row means the principal is not a subscriber, reported as ErrNotFound.
func (r *ProfileRepository) FindActiveSubscription(ctx context.Context, userID string) (*domain.Subscription, error) {
	var s domain.Subscription
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, plan, status, current_period_end
		FROM subscriptions
		WHERE user_id = $1 AND status = 'active'`,
		userID).Scan(&s.ID, &s.UserID, &s.Plan, &s.Status, &s.CurrentPeriodEnd)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}
