package verse

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/truevoice/server/pkg/votd"
)

const DefaultRefreshInterval = 6 * time.Hour

type iVerseFetcher interface {
	Fetch(ctx context.Context) (votd.Verse, error)
}

type service struct {
	fetcher         iVerseFetcher
	logger          *slog.Logger
	refreshInterval time.Duration
	now             func() time.Time

	mu        sync.RWMutex
	verse     votd.Verse
	fetchedAt time.Time
}

func NewService(fetcher iVerseFetcher, logger *slog.Logger, refreshInterval time.Duration) *service {
	if refreshInterval <= 0 {
		refreshInterval = DefaultRefreshInterval
	}

	return &service{
		fetcher:         fetcher,
		logger:          logger,
		refreshInterval: refreshInterval,
		now:             time.Now,
	}
}

// Current returns the cached verse, fetching it first when the cache is
// empty or older than the refresh interval. It never fails.
func (s *service) Current(ctx context.Context) votd.Verse {
	s.mu.RLock()
	v, fetchedAt := s.verse, s.fetchedAt
	s.mu.RUnlock()

	if !fetchedAt.IsZero() && s.now().Sub(fetchedAt) < s.refreshInterval {
		return v
	}

	return s.Refresh(ctx)
}

// Refresh fetches a new verse. On failure the last good verse is kept, or
// the fallback verse when there is none.
func (s *service) Refresh(ctx context.Context) votd.Verse {
	v, err := s.fetcher.Fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.logger.WarnContext(ctx, "failed to fetch verse of the day", "error", err)
		if s.fetchedAt.IsZero() || s.verse.Text == "" {
			s.verse = votd.Fallback
		}
		// fetchedAt is left as is so the next request retries
		return s.verse
	}

	s.verse = v
	s.fetchedAt = s.now()
	return v
}

// Run refreshes the verse immediately and then every refresh interval.
func (s *service) Run(ctx context.Context) error {
	s.Refresh(ctx)

	ticker := time.NewTicker(s.refreshInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Refresh(ctx)
		}
	}
}
