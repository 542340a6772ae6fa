// Package booru is the single point of contact with the remote tag-indexed
// board. It speaks the Gelbooru-style dapi protocol: one endpoint, entity
// selected via query parameters, JSON payloads.
package booru

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const (
	// Rate limit for outbound requests: the public boards throttle
	// aggressively, so stay polite.
	defaultRPS   = 2.0
	defaultBurst = 4

	// HTTP client settings
	defaultTimeout = 30 * time.Second

	// API settings
	apiPath  = "/index.php"
	maxLimit = 100
)

// Config holds the connection settings for a board.
type Config struct {
	// BaseURL is the board root, e.g. "https://gelbooru.com".
	BaseURL string
	// APIKey and UserID authenticate requests when the board requires it.
	APIKey string
	UserID string
	// Timeout bounds each request. Zero means the default.
	Timeout time.Duration
}

// Client is a rate-limited board API client.
type Client struct {
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger

	baseURL string
	apiKey  string
	userID  string
}

// New creates a new board client.
func New(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout: timeout,
		},
		limiter: rate.NewLimiter(rate.Limit(defaultRPS), defaultBurst),
		logger:  logger,
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		userID:  cfg.UserID,
	}
}

// Close releases idle network connections held by the client.
func (c *Client) Close() {
	c.http.CloseIdleConnections()
}

// doRequest executes a dapi request with rate limiting. The query is
// extended with the JSON switch and credentials; the network connection is
// released on every exit path, including cancellation.
func (c *Client) doRequest(ctx context.Context, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	query.Set("page", "dapi")
	query.Set("q", "index")
	query.Set("json", "1")
	if c.apiKey != "" && c.userID != "" {
		query.Set("api_key", c.apiKey)
		query.Set("user_id", c.userID)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+apiPath+"?"+query.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "Telbooru/1.0")

	c.logger.Debug("booru request",
		"entity", query.Get("s"),
		"tags", query.Get("tags"),
	)

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return nil, context.Canceled
		}
		return nil, fmt.Errorf("%w: %v", ErrConnection, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrConnection, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return body, nil
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return nil, fmt.Errorf("%w: status %d", ErrConnection, resp.StatusCode)
	default:
		return nil, fmt.Errorf("%w: status %d: %s", ErrData, resp.StatusCode, bytes.TrimSpace(body))
	}
}

// Raw API response types (internal). The boards are loose about envelope
// shape: some wrap records in an object, some return a bare array, and a
// single match occasionally arrives as a lone object.

type rawPost struct {
	ID         int64  `json:"id"`
	Width      int    `json:"width"`
	Height     int    `json:"height"`
	Score      int    `json:"score"`
	PreviewURL string `json:"preview_url"`
	SampleURL  string `json:"sample_url"`
	FileURL    string `json:"file_url"`
}

type rawTag struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Count int    `json:"count"`
	Type  int    `json:"type"`
}

type rawComment struct {
	ID        int64  `json:"id"`
	PostID    int64  `json:"post_id"`
	Author    string `json:"creator"`
	Body      string `json:"body"`
	CreatedAt string `json:"created_at"`
}

// decodeList decodes a dapi payload into records, tolerating the envelope
// variants. An empty body or an envelope without the expected keys means
// zero matches, not an error.
func decodeList[T any](body []byte, keys ...string) ([]T, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, nil
	}

	if trimmed[0] == '[' {
		var list []T
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, fmt.Errorf("%w: parse list: %v", ErrData, err)
		}
		return list, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &envelope); err != nil {
		return nil, fmt.Errorf("%w: parse envelope: %v", ErrData, err)
	}

	for _, key := range keys {
		raw, ok := envelope[key]
		if !ok {
			continue
		}
		var list []T
		if err := json.Unmarshal(raw, &list); err == nil {
			return list, nil
		}
		// Single record delivered as a lone object.
		var one T
		if err := json.Unmarshal(raw, &one); err != nil {
			return nil, fmt.Errorf("%w: parse %q records: %v", ErrData, key, err)
		}
		return []T{one}, nil
	}

	// Envelope present but no record key: valid query, zero matches.
	return nil, nil
}
