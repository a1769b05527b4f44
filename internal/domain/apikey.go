package domain

import "time"

// API key lifecycle states.
const (
	KeyStatusActive  = "active"
	KeyStatusRevoked = "revoked"
)

// APIKey is a caller credential. A key resolves to exactly one principal
// (its UserID) or the request is rejected.
type APIKey struct {
	ID            string     `json:"id"`
	UserID        string     `json:"user_id"`
	Key           string     `json:"-"`
	Label         string     `json:"label"`
	Status        string     `json:"status"`
	RequestsToday int        `json:"requests_today"`
	DailyLimit    int        `json:"daily_limit"`
	LastRequestAt *time.Time `json:"last_request_at,omitempty"`
	LastUsedAt    *time.Time `json:"last_used_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}
