package domain

import "time"

// Label is the terminal outcome assigned to one checked username.
type Label string

const (
	LabelAvailable    Label = "available"
	LabelTaken        Label = "taken"
	LabelRateLimited  Label = "rate_limited"
	LabelTokenInvalid Label = "token_invalid"
	LabelError        Label = "error"
)

// CheckRecord is one persisted availability check.
type CheckRecord struct {
	ID              string    `json:"id"`
	UserID          string    `json:"user_id"`
	UsernameChecked string    `json:"username_checked"`
	IsAvailable     bool      `json:"is_available"`
	TokenUsed       string    `json:"token_used,omitempty"`
	CheckedAt       time.Time `json:"checked_at"`
}

// APILogEntry records one call to a key-gated endpoint.
type APILogEntry struct {
	ID               string        `json:"id"`
	APIKeyID         string        `json:"api_key_id"`
	UserID           string        `json:"user_id"`
	Endpoint         string        `json:"endpoint"`
	TokenName        string        `json:"token_name,omitempty"`
	UsernamesChecked []string      `json:"usernames_checked,omitempty"`
	StatusCode       int           `json:"status_code"`
	ErrorMessage     string        `json:"error_message,omitempty"`
	ProcessingTime   time.Duration `json:"-"`
	CreatedAt        time.Time     `json:"created_at"`
}
