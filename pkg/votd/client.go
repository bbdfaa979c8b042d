package votd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

const DefaultURL = "https://beta.ourmanna.com/api/v1/get/?format=json"

var ErrUnexpectedStatus = errors.New("unexpected status code")

type Verse struct {
	Text      string `json:"text"`
	Reference string `json:"reference"`
	Version   string `json:"version"`
}

// Fallback is shown whenever the upstream cannot be used.
var Fallback = Verse{
	Text:      "I remain confident of this: I will see the goodness of the Lord in the land of the living.",
	Reference: "Psalm 27:13",
	Version:   "NIV",
}

type response struct {
	Verse struct {
		Details struct {
			Text        string `json:"text"`
			Reference   string `json:"reference"`
			Version     string `json:"version"`
			Translation string `json:"translation"`
		} `json:"details"`
	} `json:"verse"`
}

type Client struct {
	url        string
	httpClient *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	if url == "" {
		url = DefaultURL
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{url: url, httpClient: &http.Client{Timeout: timeout}}
}

// Fetch returns the verse of the day. Fields missing upstream are filled from
// Fallback.
func (c *Client) Fetch(ctx context.Context) (Verse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return Verse{}, fmt.Errorf("failed to build request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Verse{}, fmt.Errorf("failed to fetch verse: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Verse{}, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	var r response
	if err := json.NewDecoder(resp.Body).Decode(&r); err != nil {
		return Verse{}, fmt.Errorf("failed to decode verse: %w", err)
	}

	d := r.Verse.Details
	v := Verse{Text: d.Text, Reference: d.Reference, Version: d.Version}
	if v.Version == "" {
		v.Version = d.Translation
	}
	if v.Text == "" {
		v.Text = Fallback.Text
	}
	if v.Reference == "" {
		v.Reference = Fallback.Reference
	}
	if v.Version == "" {
		v.Version = Fallback.Version
	}

	return v, nil
}
