package postgres

import (
	"context"
	"database/sql"

	"github.com/user/pomelo-checker/internal/domain"
)

// SavedUsernameRepository implements domain.SavedUsernameRepository against PostgreSQL.
type SavedUsernameRepository struct {
	db *sql.DB
}

// NewSavedUsernameRepository creates a new PostgreSQL saved-username repository.
func NewSavedUsernameRepository(db *sql.DB) *SavedUsernameRepository {
	return &SavedUsernameRepository{db: db}
}

// ListForUser returns the principal's saved usernames, newest first.
func (r *SavedUsernameRepository) ListForUser(ctx context.Context, userID string) ([]domain.SavedUsername, error) {
	query := `SELECT id, user_id, username, notes, is_claimed, saved_at
		FROM saved_usernames
		WHERE user_id = $1
		ORDER BY saved_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var saved []domain.SavedUsername
	for rows.Next() {
		var s domain.SavedUsername
		if err := rows.Scan(&s.ID, &s.UserID, &s.Username, &s.Notes, &s.IsClaimed, &s.SavedAt); err != nil {
			return nil, err
		}
		saved = append(saved, s)
	}
	return saved, rows.Err()
}

// CountForUser returns how many usernames the principal has saved.
func (r *SavedUsernameRepository) CountForUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM saved_usernames WHERE user_id = $1`, userID).Scan(&count)
	return count, err
}

// Create inserts a new saved username.
func (r *SavedUsernameRepository) Create(ctx context.Context, saved *domain.SavedUsername) error {
	query := `INSERT INTO saved_usernames (id, user_id, username, notes, is_claimed, saved_at)
		VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		saved.ID, saved.UserID, saved.Username, saved.Notes, saved.IsClaimed, saved.SavedAt)
	return err
}

// Update patches notes and/or the claimed flag. Nil fields are left unchanged.
func (r *SavedUsernameRepository) Update(ctx context.Context, userID, id string, notes *string, isClaimed *bool) error {
	query := `UPDATE saved_usernames
		SET notes = COALESCE($3, notes),
			is_claimed = COALESCE($4, is_claimed)
		WHERE id = $1 AND user_id = $2`

	res, err := r.db.ExecContext(ctx, query, id, userID, notes, isClaimed)
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

// Delete removes a saved username owned by the principal.
func (r *SavedUsernameRepository) Delete(ctx context.Context, userID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM saved_usernames WHERE id = $1 AND user_id = $2`, id, userID)
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
