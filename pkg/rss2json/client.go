package rss2json

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const DefaultBaseURL = "https://api.rss2json.com"

var (
	ErrUnexpectedStatus = errors.New("unexpected status code")
	ErrFeedNotOK        = errors.New("feed status is not ok")
)

type Enclosure struct {
	Link string `json:"link"`
	URL  string `json:"url"`
	Type string `json:"type"`
}

type Item struct {
	GUID      string    `json:"guid"`
	Title     string    `json:"title"`
	Link      string    `json:"link"`
	PubDate   string    `json:"pubDate"`
	Thumbnail string    `json:"thumbnail"`
	Enclosure Enclosure `json:"enclosure"`
}

type Feed struct {
	Status string `json:"status"`
	Items  []Item `json:"items"`
}

type Client struct {
	baseURL    string
	httpClient *http.Client
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) FeedURL(rssURL string) string {
	return fmt.Sprintf("%s/v1/api.json?rss_url=%s", c.baseURL, url.QueryEscape(rssURL))
}

// Fetch converts the RSS feed at rssURL through the proxy.
func (c *Client) Fetch(ctx context.Context, rssURL string) (*Feed, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.FeedURL(rssURL), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var feed Feed
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("failed to decode feed: %w", err)
	}

	if feed.Status != "" && feed.Status != "ok" {
		return nil, fmt.Errorf("%w: %s", ErrFeedNotOK, feed.Status)
	}

	return &feed, nil
}
