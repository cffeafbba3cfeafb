package feed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultBaseURL = "https://api.the-odds-api.com"

// ErrMissingAPIKey indicates no credential was supplied for the odds feed
var ErrMissingAPIKey = errors.New("odds feed API key is missing")

// Client fetches odds snapshots from The Odds API
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// NewClient creates a feed client. The API key is required.
func NewClient(apiKey string) (*Client, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	return &Client{
		httpClient: &http.Client{Timeout: 15 * time.Second},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
	}, nil
}

// NewClientWithBaseURL creates a feed client against a custom base URL (tests)
func NewClientWithBaseURL(apiKey, baseURL string) (*Client, error) {
	client, err := NewClient(apiKey)
	if err != nil {
		return nil, err
	}
	client.baseURL = baseURL
	return client, nil
}

// FetchOdds retrieves one odds snapshot for the given sport and markets
func (c *Client) FetchOdds(ctx context.Context, opts FetchOptions) ([]Game, error) {
	endpoint := fmt.Sprintf("%s/v4/sports/%s/odds", c.baseURL, opts.Sport)

	params := url.Values{}
	params.Set("apiKey", c.apiKey)
	params.Set("regions", strings.Join(opts.Regions, ","))
	params.Set("markets", strings.Join(opts.Markets, ","))
	params.Set("oddsFormat", "american")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch odds: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("odds API returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	limits := rateLimitsFromHeader(resp.Header)
	if limits.RequestsRemaining != "" {
		fmt.Printf("[feed] quota: %s requests remaining, %s used\n",
			limits.RequestsRemaining, limits.RequestsUsed)
	}

	var games []Game
	if err := json.NewDecoder(resp.Body).Decode(&games); err != nil {
		return nil, fmt.Errorf("decode odds response: %w", err)
	}

	return games, nil
}

// rateLimitsFromHeader extracts The Odds API quota headers
func rateLimitsFromHeader(h http.Header) RateLimits {
	return RateLimits{
		RequestsRemaining: h.Get("X-Requests-Remaining"),
		RequestsUsed:      h.Get("X-Requests-Used"),
	}
}
