package domain

import "context"

// DiscordUser is the normalized subset of the upstream user object returned
// by the lookup endpoint. All other upstream fields are discarded.
type DiscordUser struct {
	ID            string  `json:"id"`
	Username      string  `json:"username"`
	GlobalName    *string `json:"global_name"`
	Avatar        *string `json:"avatar"`
	Banner        *string `json:"banner"`
	BannerColor   *string `json:"banner_color"`
	AccentColor   *int    `json:"accent_color"`
	Discriminator string  `json:"discriminator"`
	PublicFlags   int     `json:"public_flags"`
}

// ProbeResult is the raw outcome of one availability probe. Classification
// into a Label happens in the usecase layer.
type ProbeResult struct {
	StatusCode int
	// Taken is nil when the upstream body carried no usable "taken" field.
	Taken *bool
}

// DiscordClient abstracts the Discord API for probes and user lookups.
type DiscordClient interface {
	// CheckUsername issues one availability probe using the given account token.
	CheckUsername(ctx context.Context, token, username string) (ProbeResult, error)

	// LookupUser fetches one user by numeric ID using the bot credential.
	LookupUser(ctx context.Context, userID string) (*DiscordUser, error)
}
