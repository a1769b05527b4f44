package domain

import "time"

// UserToken is a Discord account token owned by a principal and used to
// issue availability probes. At most one active token exists per
// (user, token name) pair.
type UserToken struct {
	ID         string     `json:"id"`
	UserID     string     `json:"user_id"`
	TokenName  string     `json:"token_name"`
	TokenValue string     `json:"-"`
	IsActive   bool       `json:"is_active"`
	UsageCount int        `json:"usage_count"`
	LastUsedAt *time.Time `json:"last_used_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}
