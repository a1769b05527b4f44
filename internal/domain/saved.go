package domain

import "time"

// SavedUsername is a username a principal bookmarked for later.
type SavedUsername struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	Username  string    `json:"username"`
	Notes     *string   `json:"notes"`
	IsClaimed bool      `json:"is_claimed"`
	SavedAt   time.Time `json:"saved_at"`
}
