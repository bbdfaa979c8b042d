package podcast

import (
	"context"
	"errors"
	"log/slog"

	"github.com/truevoice/server/internal/repository/podcast"
	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/pkg/rss2json"
	"golang.org/x/sync/errgroup"
)

const (
	MaxEpisodes = 6

	MessageLoadFailed = "Could not load episodes. Try again later."
	MessageNoEpisodes = "Browse episodes on the original feed below."

	maxConcurrentFetches = 4
)

type iFeedFetcher interface {
	Fetch(ctx context.Context, rssURL string) (*rss2json.Feed, error)
}

type iEpisodeRepo interface {
	SetEpisodes(ctx context.Context, showID string, episodes []podcast.Episode) error
	GetEpisodes(ctx context.Context, showID string) ([]podcast.Episode, error)
}

type iShowProvider interface {
	PodcastShows() []catalog.PodcastShow
}

type Show struct {
	catalog.PodcastShow
	Episodes []podcast.Episode `json:"episodes"`
	Failed   bool              `json:"failed"`
	Message  string            `json:"message,omitempty"`
}

type service struct {
	fetcher iFeedFetcher
	repo    iEpisodeRepo
	shows   iShowProvider
	logger  *slog.Logger
}

func NewService(fetcher iFeedFetcher, repo iEpisodeRepo, shows iShowProvider, logger *slog.Logger) *service {
	return &service{
		fetcher: fetcher,
		repo:    repo,
		shows:   shows,
		logger:  logger,
	}
}

// Shows returns every curated show with its latest episodes. Shows are
// loaded concurrently and a failing feed only affects its own show.
func (s *service) Shows(ctx context.Context) []Show {
	shows := s.shows.PodcastShows()
	result := make([]Show, len(shows))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentFetches)
	for i, show := range shows {
		i, show := i, show
		g.Go(func() error {
			result[i] = s.load(gctx, show)
			return nil
		})
	}
	g.Wait()

	return result
}

func (s *service) load(ctx context.Context, show catalog.PodcastShow) Show {
	res := Show{PodcastShow: show, Episodes: []podcast.Episode{}}

	episodes, err := s.episodes(ctx, show)
	if err != nil {
		s.logger.WarnContext(ctx, "failed to load episodes", "show_id", show.ID, "error", err)
		res.Failed = true
		res.Message = MessageLoadFailed
		return res
	}

	if len(episodes) == 0 {
		res.Message = MessageNoEpisodes
		return res
	}

	res.Episodes = episodes
	return res
}

func (s *service) episodes(ctx context.Context, show catalog.PodcastShow) ([]podcast.Episode, error) {
	episodes, err := s.repo.GetEpisodes(ctx, show.ID)
	if err == nil {
		return episodes, nil
	}
	if !errors.Is(err, podcast.ErrEpisodesNotFound) {
		s.logger.InfoContext(ctx, "failed to get cached episodes", "show_id", show.ID, "error", err)
	}

	feed, err := s.fetcher.Fetch(ctx, show.FeedURL)
	if err != nil {
		return nil, err
	}

	episodes = toEpisodes(feed.Items, show.WebsiteURL)
	if err := s.repo.SetEpisodes(ctx, show.ID, episodes); err != nil {
		s.logger.InfoContext(ctx, "failed to cache episodes", "show_id", show.ID, "error", err)
	}

	return episodes, nil
}

func toEpisodes(items []rss2json.Item, websiteURL string) []podcast.Episode {
	if len(items) > MaxEpisodes {
		items = items[:MaxEpisodes]
	}

	episodes := make([]podcast.Episode, 0, len(items))
	for _, item := range items {
		episodes = append(episodes, podcast.Episode{
			GUID:      item.GUID,
			Title:     item.Title,
			Link:      item.Link,
			URL:       episodeURL(item, websiteURL),
			PubDate:   item.PubDate,
			Thumbnail: item.Thumbnail,
		})
	}

	return episodes
}

// episodeURL prefers the audio enclosure, then the item page, then the show
// website.
func episodeURL(item rss2json.Item, websiteURL string) string {
	for _, u := range []string{item.Enclosure.Link, item.Enclosure.URL, item.Link} {
		if u != "" {
			return u
		}
	}

	return websiteURL
}
