package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/user/pomelo-checker/internal/domain"
)

// TokenRepository implements domain.TokenRepository against PostgreSQL.
type TokenRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewTokenRepository creates a new PostgreSQL token repository.
func NewTokenRepository(db *sql.DB, logger *slog.Logger) *TokenRepository {
	return &TokenRepository{db: db, logger: logger}
}

// FindActive resolves exactly one active token for the principal and name.
func (r *TokenRepository) FindActive(ctx context.Context, userID, tokenName string) (*domain.UserToken, error) {
	query := `SELECT id, user_id, token_name, token_value, is_active, usage_count, last_used_at, created_at
		FROM user_tokens
		WHERE user_id = $1 AND token_name = $2 AND is_active = TRUE`

	var t domain.UserToken
	err := r.db.QueryRowContext(ctx, query, userID, tokenName).Scan(
		&t.ID, &t.UserID, &t.TokenName, &t.TokenValue, &t.IsActive,
		&t.UsageCount, &t.LastUsedAt, &t.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNoActiveToken
	}
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListForUser returns every token owned by the principal, newest first.
func (r *TokenRepository) ListForUser(ctx context.Context, userID string) ([]domain.UserToken, error) {
	query := `SELECT id, user_id, token_name, token_value, is_active, usage_count, last_used_at, created_at
		FROM user_tokens
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.UserToken
	for rows.Next() {
		var t domain.UserToken
		if err := rows.Scan(
			&t.ID, &t.UserID, &t.TokenName, &t.TokenValue, &t.IsActive,
			&t.UsageCount, &t.LastUsedAt, &t.CreatedAt,
		); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

// Create inserts a new token row.
func (r *TokenRepository) Create(ctx context.Context, token *domain.UserToken) error {
	query := `INSERT INTO user_tokens (id, user_id, token_name, token_value, is_active, usage_count, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		token.ID, token.UserID, token.TokenName, token.TokenValue,
		token.IsActive, token.UsageCount, token.CreatedAt,
	)
	return err
}

// Delete removes a token owned by the principal. Deleting another
// principal's token is reported as ErrNotFound.
func (r *TokenRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM user_tokens WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Deactivate flips the active flag off. Idempotent by construction.
func (r *TokenRepository) Deactivate(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_tokens SET is_active = FALSE WHERE id = $1`, id)
	return err
}

// RecordUsage adds n to the usage counter and stamps last_used_at.
func (r *TokenRepository) RecordUsage(ctx context.Context, id string, n int, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE user_tokens SET usage_count = usage_count + $2, last_used_at = $3 WHERE id = $1`,
		id, n, at)
	return err
}
