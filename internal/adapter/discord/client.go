package discord

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/user/pomelo-checker/internal/domain"
)

const (
	pomeloAttemptPath = "/v9/users/@me/pomelo-attempt"
	userLookupPath    = "/v10/users/"
)

// Client implements domain.DiscordClient against the Discord HTTP API.
// Outbound probes share a token-bucket limiter so a large batch cannot
// flood the upstream.
type Client struct {
	httpClient *http.Client
	baseURL    string
	botToken   string
	limiter    *rate.Limiter
	logger     *slog.Logger
}

// NewClient creates a Discord API client. rps bounds outbound probe rate;
// bursts up to rps are allowed.
func NewClient(baseURL, botToken string, rps int, logger *slog.Logger) *Client {
	if rps <= 0 {
		rps = 1
	}
	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    baseURL,
		botToken:   botToken,
		limiter:    rate.NewLimiter(rate.Limit(rps), rps),
		logger:     logger.With("component", "discord_client"),
	}
}

// CheckUsername issues one availability probe with the given account token.
// Transport and decode failures are returned as errors; HTTP-level outcomes,
// including 4xx, are reported in the ProbeResult for the caller to classify.
func (c *Client) CheckUsername(ctx context.Context, token, username string) (domain.ProbeResult, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return domain.ProbeResult{}, err
	}

	payload, err := json.Marshal(map[string]string{"username": username})
	if err != nil {
		return domain.ProbeResult{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+pomeloAttemptPath, bytes.NewReader(payload))
	if err != nil {
		return domain.ProbeResult{}, err
	}
	req.Header.Set("Authorization", token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return domain.ProbeResult{}, err
	}
	defer resp.Body.Close()

	result := domain.ProbeResult{StatusCode: resp.StatusCode}

	switch resp.StatusCode {
	case http.StatusTooManyRequests, http.StatusUnauthorized, http.StatusForbidden:
		// Classification needs only the status; drain so the connection is reusable.
		_, _ = io.Copy(io.Discard, resp.Body)
		return result, nil
	}

	var body struct {
		Taken *bool `json:"taken"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return domain.ProbeResult{}, fmt.Errorf("decode probe response: %w", err)
	}
	result.Taken = body.Taken
	return result, nil
}

// LookupUser fetches one user by numeric ID using the bot credential.
func (c *Client) LookupUser(ctx context.Context, userID string) (*domain.DiscordUser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+userLookupPath+userID, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bot "+c.botToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, domain.ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.logger.Error("user lookup failed", "status", resp.StatusCode, "body", string(body))
		return nil, &domain.UpstreamError{StatusCode: resp.StatusCode}
	}

	var user domain.DiscordUser
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("decode user response: %w", err)
	}
	return &user, nil
}
