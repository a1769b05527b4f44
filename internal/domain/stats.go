package domain

import "time"

// TokenCounts breaks down a principal's tokens by active flag.
type TokenCounts struct {
	Total    int `json:"total"`
	Active   int `json:"active"`
	Inactive int `json:"inactive"`
}

// CheckCounts breaks down a principal's check history by outcome.
type CheckCounts struct {
	Total          int `json:"total"`
	AvailableFound int `json:"available_found"`
	TakenFound     int `json:"taken_found"`
}

// Stats is the aggregated response of the stats endpoint. All fields are
// recomputed per request from the record store.
type Stats struct {
	Tokens         TokenCounts `json:"tokens"`
	Checks         CheckCounts `json:"checks"`
	SavedUsernames int         `json:"saved_usernames"`
	LastAPIRequest *time.Time  `json:"last_api_request"`
}
