package ytvideodata

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrVideoNotFound      = errors.New("video not found")
	ErrVideoNotEmbeddable = errors.New("video is not embeddable")
	ErrInvalidVideoID     = errors.New("invalid video id")
)

type VideoData struct {
	Title        string `json:"title"`
	AuthorName   string `json:"author_name"`
	ThumbnailUrl string `json:"thumbnail_url"`
}

type Client struct {
	oembedURL  string
	pageURL    string
	httpClient *http.Client
}

type Option func(*Client)

// WithBaseURLs points the client at alternative oEmbed and watch page hosts.
func WithBaseURLs(oembedURL, pageURL string) Option {
	return func(c *Client) {
		c.oembedURL = strings.TrimRight(oembedURL, "/")
		c.pageURL = strings.TrimRight(pageURL, "/")
	}
}

func New(opts ...Option) *Client {
	c := &Client{
		oembedURL:  "https://www.youtube.com/oembed",
		pageURL:    "https://youtu.be",
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}

	return c
}

// Get returns title, author and thumbnail of the video. Videos that refuse
// oEmbed are read from their watch page instead.
func (c *Client) Get(ctx context.Context, videoID string) (*VideoData, error) {
	if videoID == "" {
		return nil, ErrInvalidVideoID
	}

	videoData, err := c.getVideoWithEmbed(ctx, videoID)
	if err != nil {
		if !errors.Is(err, ErrVideoNotEmbeddable) {
			return nil, fmt.Errorf("failed to get video data with embed: %w", err)
		}

		videoData, err = c.getFromPage(ctx, videoID)
		if err != nil {
			return nil, fmt.Errorf("failed to get video data from page: %w", err)
		}
	}

	return videoData, nil
}

// ParseVideoID accepts a bare id or any of the usual YouTube URL forms.
func ParseVideoID(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	u, err := url.Parse(s)
	if err != nil || u.Host == "" {
		return s
	}

	host := strings.TrimPrefix(u.Host, "www.")
	host = strings.TrimPrefix(host, "m.")
	switch host {
	case "youtu.be":
		return strings.Trim(u.Path, "/")
	case "youtube.com", "youtube-nocookie.com":
		if v := u.Query().Get("v"); v != "" {
			return v
		}
		parts := strings.Split(strings.Trim(u.Path, "/"), "/")
		if len(parts) == 2 && (parts[0] == "embed" || parts[0] == "shorts" || parts[0] == "live") {
			return parts[1]
		}
	}

	return ""
}

func EmbedURL(videoID string) string {
	return fmt.Sprintf("https://www.youtube.com/embed/%s?autoplay=1&rel=0", videoID)
}

func ThumbnailURL(videoID string) string {
	return fmt.Sprintf("https://i.ytimg.com/vi/%s/hqdefault.jpg", videoID)
}
