package domain

import "time"

// Profile is the user-facing identity of a principal.
type Profile struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	AvatarURL *string   `json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
}

// Subscription is a principal's paid plan, if any.
type Subscription struct {
	ID               string    `json:"id"`
	UserID           string    `json:"user_id"`
	Plan             string    `json:"plan"`
	Status           string    `json:"status"`
	CurrentPeriodEnd time.Time `json:"current_period_end"`
}

// IsPremium reports whether the subscription grants a paid plan.
func (s *Subscription) IsPremium() bool {
	return s != nil && (s.Plan == "basic" || s.Plan == "premium")
}

// KeyStats summarizes a principal's API key usage for the profile view.
type KeyStats struct {
	TotalKeys         int `json:"total_keys"`
	ActiveKeys        int `json:"active_keys"`
	DailyLimit        int `json:"daily_limit"`
	RequestsToday     int `json:"requests_today"`
	RequestsRemaining int `json:"requests_remaining"`
}

// ProfileView is the aggregated response of the user endpoint.
type ProfileView struct {
	Username       string     `json:"username"`
	CreatedAt      time.Time  `json:"created_at"`
	AvatarURL      *string    `json:"avatar_url"`
	IsPremium      bool       `json:"is_premium"`
	PremiumPlan    *string    `json:"premium_plan"`
	PremiumExpires *time.Time `json:"premium_expires"`
	APIStats       KeyStats   `json:"api_stats"`
}
