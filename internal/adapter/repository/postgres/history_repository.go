package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"github.com/user/pomelo-checker/internal/domain"
)

// HistoryRepository implements domain.HistoryRepository against PostgreSQL.
type HistoryRepository struct {
	db *sql.DB
}

// NewHistoryRepository creates a new PostgreSQL history repository.
func NewHistoryRepository(db *sql.DB) *HistoryRepository {
	return &HistoryRepository{db: db}
}

// InsertCheck persists one availability check outcome.
func (r *HistoryRepository) InsertCheck(ctx context.Context, rec *domain.CheckRecord) error {
	query := `INSERT INTO check_history (id, user_id, username_checked, is_available, token_used, checked_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, '')::uuid, $6)`

	_, err := r.db.ExecContext(ctx, query,
		rec.ID, rec.UserID, rec.UsernameChecked, rec.IsAvailable, rec.TokenUsed, rec.CheckedAt)
	return err
}

// CountChecks folds the principal's check history into aggregate counts.
func (r *HistoryRepository) CountChecks(ctx context.Context, userID string) (domain.CheckCounts, error) {
	query := `SELECT COUNT(*),
			COUNT(*) FILTER (WHERE is_available)
		FROM check_history
		WHERE user_id = $1`

	var counts domain.CheckCounts
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&counts.Total, &counts.AvailableFound); err != nil {
		return domain.CheckCounts{}, err
	}
	counts.TakenFound = counts.Total - counts.AvailableFound
	return counts, nil
}

// InsertAPILog appends one key-gated request record.
func (r *HistoryRepository) InsertAPILog(ctx context.Context, entry *domain.APILogEntry) error {
	query := `INSERT INTO api_logs
		(id, api_key_id, user_id, endpoint, token_name, usernames_checked, status_code, error_message, processing_time_ms, created_at)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6, $7, NULLIF($8, ''), $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		entry.ID, entry.APIKeyID, entry.UserID, entry.Endpoint, entry.TokenName,
		pq.Array(entry.UsernamesChecked), entry.StatusCode, entry.ErrorMessage,
		entry.ProcessingTime.Milliseconds(), entry.CreatedAt)
	return err
}

// LastAPIRequest returns the most recent api_logs timestamp, or nil when the
// principal has never called a gated endpoint.
func (r *HistoryRepository) LastAPIRequest(ctx context.Context, userID string) (*time.Time, error) {
	var at time.Time
	err := r.db.QueryRowContext(ctx,
		`SELECT created_at FROM api_logs WHERE user_id = $1 ORDER BY created_at DESC LIMIT 1`,
		userID).Scan(&at)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &at, nil
}
