package azuracast

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

var (
	ErrInvalidConfig    = errors.New("azuracast base url or station is empty")
	ErrUnexpectedStatus = errors.New("unexpected status code")
)

type Config struct {
	BaseURL string
	Station string
	Timeout time.Duration
}

type Client struct {
	baseURL    string
	station    string
	httpClient *http.Client
}

func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		station:    cfg.Station,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) nowPlayingURL() string {
	return fmt.Sprintf("%s/api/nowplaying/%s", c.baseURL, c.station)
}

// FetchRaw returns the upstream payload untouched.
func (c *Client) FetchRaw(ctx context.Context) (json.RawMessage, error) {
	if c.baseURL == "" || c.station == "" {
		return nil, ErrInvalidConfig
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.nowPlayingURL(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch now playing: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}

	if !json.Valid(body) {
		return nil, errors.New("now playing body is not valid json")
	}

	return body, nil
}

// Fetch returns the normalized snapshot together with the raw payload it was
// built from.
func (c *Client) Fetch(ctx context.Context) (*NowPlaying, json.RawMessage, error) {
	raw, err := c.FetchRaw(ctx)
	if err != nil {
		return nil, nil, err
	}

	np, err := Normalize(raw)
	if err != nil {
		return nil, raw, err
	}

	return np, raw, nil
}
