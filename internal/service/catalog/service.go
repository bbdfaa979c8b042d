package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/truevoice/server/pkg/ytvideodata"
)

var (
	ErrUnknownSection = errors.New("unknown video section")
	ErrNoActiveVideo  = errors.New("no active video in section")
)

type iVideoData interface {
	Get(ctx context.Context, videoID string) (*ytvideodata.VideoData, error)
}

type Config struct {
	Location     *time.Location
	DayStartHour int
	DayEndHour   int
}

type service struct {
	videoData iVideoData
	logger    *slog.Logger
	location  *time.Location
	dayStart  int
	dayEnd    int
	now       func() time.Time

	mu      sync.RWMutex
	catalog Catalog

	enrichMu sync.Mutex
	enriched map[string]ytvideodata.VideoData
	reloaded chan struct{}
}

func NewService(videoData iVideoData, logger *slog.Logger, cfg *Config) *service {
	loc := cfg.Location
	if loc == nil {
		loc = time.UTC
	}

	dayStart, dayEnd := cfg.DayStartHour, cfg.DayEndHour
	if dayStart == 0 && dayEnd == 0 {
		dayStart, dayEnd = 6, 18
	}

	return &service{
		videoData: videoData,
		logger:    logger,
		location:  loc,
		dayStart:  dayStart,
		dayEnd:    dayEnd,
		now:       time.Now,
		catalog:   Default(),
		enriched:  make(map[string]ytvideodata.VideoData),
		reloaded:  make(chan struct{}, 1),
	}
}

// Load reads the catalog file at path and keeps watching it for changes.
// Collections absent from the file fall back to the built-in defaults.
func (s *service) Load(path string) error {
	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read catalog: %w", err)
	}

	c, err := s.decode(v)
	if err != nil {
		return err
	}
	s.set(c)

	v.OnConfigChange(func(e fsnotify.Event) {
		c, err := s.decode(v)
		if err != nil {
			s.logger.Error("failed to reload catalog", "file", e.Name, "error", err)
			return
		}

		s.set(c)
		s.logger.Info("catalog reloaded", "file", e.Name)

		select {
		case s.reloaded <- struct{}{}:
		default:
		}
	})
	v.WatchConfig()

	return nil
}

func (s *service) decode(v *viper.Viper) (Catalog, error) {
	var c Catalog
	if err := v.Unmarshal(&c); err != nil {
		return Catalog{}, fmt.Errorf("failed to decode catalog: %w", err)
	}

	def := Default()
	if c.Videos == nil {
		c.Videos = def.Videos
	}
	if c.Reels == nil {
		c.Reels = def.Reels
	}
	if c.Merch == nil {
		c.Merch = def.Merch
	}
	if c.Donations == nil {
		c.Donations = def.Donations
	}
	if c.Podcasts == nil {
		c.Podcasts = def.Podcasts
	}

	videos := c.Videos[:0:0]
	for _, item := range c.Videos {
		if !item.Section.Valid() {
			s.logger.Warn("skipping video with unknown section", "video_id", item.ID, "section", item.Section)
			continue
		}
		videos = append(videos, item)
	}
	c.Videos = videos

	return c, nil
}

func (s *service) set(c Catalog) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.catalog = c
}

func (s *service) snapshot() Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.catalog
}

// Videos returns the active items of a section, featured first, then newest
// first. Items whose video id cannot be parsed are left out.
func (s *service) Videos(section VideoSection) ([]Video, error) {
	if !section.Valid() {
		return nil, ErrUnknownSection
	}

	items := make([]VideoFeedItem, 0)
	for _, item := range s.snapshot().Videos {
		if item.Section == section && item.Active && ytvideodata.ParseVideoID(item.VideoID) != "" {
			items = append(items, item)
		}
	}

	slices.SortStableFunc(items, func(a, b VideoFeedItem) int {
		if a.Featured != b.Featured {
			if a.Featured {
				return -1
			}
			return 1
		}
		return strings.Compare(b.PublishedAt, a.PublishedAt)
	})

	videos := make([]Video, 0, len(items))
	for _, item := range items {
		videos = append(videos, s.toVideo(item))
	}

	return videos, nil
}

// OpenVideo returns the item the section's "Watch" action plays.
func (s *service) OpenVideo(section VideoSection) (Video, error) {
	videos, err := s.Videos(section)
	if err != nil {
		return Video{}, err
	}

	if len(videos) == 0 {
		return Video{}, ErrNoActiveVideo
	}

	return videos[0], nil
}

func (s *service) toVideo(item VideoFeedItem) Video {
	id := ytvideodata.ParseVideoID(item.VideoID)
	item.VideoID = id

	thumbnail := ytvideodata.ThumbnailURL(id)

	s.enrichMu.Lock()
	data, ok := s.enriched[id]
	s.enrichMu.Unlock()
	if ok {
		if item.Title == "" {
			item.Title = data.Title
		}
		if data.ThumbnailUrl != "" {
			thumbnail = data.ThumbnailUrl
		}
	}

	return Video{
		VideoFeedItem: item,
		EmbedURL:      ytvideodata.EmbedURL(id),
		ThumbnailURL:  thumbnail,
	}
}

// EnrichVideos looks up untitled items once and remembers the result.
func (s *service) EnrichVideos(ctx context.Context) {
	for _, item := range s.snapshot().Videos {
		if item.Title != "" {
			continue
		}

		id := ytvideodata.ParseVideoID(item.VideoID)
		if id == "" {
			continue
		}

		s.enrichMu.Lock()
		_, ok := s.enriched[id]
		s.enrichMu.Unlock()
		if ok {
			continue
		}

		data, err := s.videoData.Get(ctx, id)
		if err != nil {
			s.logger.InfoContext(ctx, "failed to get video data", "video_id", id, "error", err)
			continue
		}

		s.enrichMu.Lock()
		s.enriched[id] = *data
		s.enrichMu.Unlock()
	}
}

// RunEnrichment enriches the catalog once and again after every reload of
// the catalog file, until ctx is cancelled.
func (s *service) RunEnrichment(ctx context.Context) error {
	s.EnrichVideos(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.reloaded:
			s.EnrichVideos(ctx)
		}
	}
}

// Reels groups reels by channel in order of first appearance.
func (s *service) Reels() []ReelChannel {
	channels := make([]ReelChannel, 0)
	index := make(map[string]int)
	for _, reel := range s.snapshot().Reels {
		if reel.EmbedURL == "" {
			if id := ytvideodata.ParseVideoID(reel.VideoURL); id != "" {
				reel.EmbedURL = "https://www.youtube.com/embed/" + id
				if reel.ThumbnailURL == "" {
					reel.ThumbnailURL = ytvideodata.ThumbnailURL(id)
				}
			}
		}

		i, ok := index[reel.Channel]
		if !ok {
			i = len(channels)
			index[reel.Channel] = i
			channels = append(channels, ReelChannel{Title: reel.Channel})
		}
		channels[i].Reels = append(channels[i].Reels, reel)
	}

	return channels
}

func (s *service) Merch() []MerchProduct {
	return slices.Clone(s.snapshot().Merch)
}

// DonationLinks are returned exactly as configured.
func (s *service) DonationLinks() []DonationLink {
	return slices.Clone(s.snapshot().Donations)
}

func (s *service) PodcastShows() []PodcastShow {
	return slices.Clone(s.snapshot().Podcasts)
}

func (s *service) ThemeAt(t time.Time) Theme {
	h := t.In(s.location).Hour()
	if h >= s.dayStart && h < s.dayEnd {
		return ThemeDay
	}

	return ThemeNight
}

func (s *service) Theme() Theme {
	return s.ThemeAt(s.now())
}

// RunThemeClock re-evaluates the theme every interval and calls onChange
// when it flips. It returns when ctx is done.
func (s *service) RunThemeClock(ctx context.Context, interval time.Duration, onChange func(Theme)) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	current := s.Theme()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			theme := s.Theme()
			if theme == current {
				continue
			}

			s.logger.InfoContext(ctx, "theme changed", "theme", theme)
			current = theme
			onChange(theme)
		}
	}
}
