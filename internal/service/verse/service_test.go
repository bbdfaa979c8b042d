package verse

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/truevoice/server/pkg/votd"
)

type fakeFetcher struct {
	calls int
	verse votd.Verse
	err   error
}

func (f *fakeFetcher) Fetch(context.Context) (votd.Verse, error) {
	f.calls++
	return f.verse, f.err
}

var john = votd.Verse{Text: "For God so loved the world...", Reference: "John 3:16", Version: "NIV"}

func TestCurrentCachesUntilStale(t *testing.T) {
	fetcher := &fakeFetcher{verse: john}
	s := NewService(fetcher, slog.Default(), time.Hour)
	now := time.Unix(1_700_000_000, 0)
	s.now = func() time.Time { return now }
	ctx := context.Background()

	assert.Equal(t, john, s.Current(ctx))
	assert.Equal(t, john, s.Current(ctx))
	assert.Equal(t, 1, fetcher.calls)

	now = now.Add(time.Hour)
	s.Current(ctx)
	assert.Equal(t, 2, fetcher.calls)
}

func TestCurrentFallsBackOnError(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("timeout")}
	s := NewService(fetcher, slog.Default(), 0)
	ctx := context.Background()

	assert.Equal(t, votd.Fallback, s.Current(ctx))
	// not cached, so the next request retries
	s.Current(ctx)
	assert.Equal(t, 2, fetcher.calls)
}

func TestRefreshKeepsLastGoodVerse(t *testing.T) {
	fetcher := &fakeFetcher{verse: john}
	s := NewService(fetcher, slog.Default(), 0)
	ctx := context.Background()

	s.Refresh(ctx)
	fetcher.err = errors.New("boom")
	assert.Equal(t, john, s.Refresh(ctx))
}

func TestRunStopsOnCancel(t *testing.T) {
	fetcher := &fakeFetcher{verse: john}
	s := NewService(fetcher, slog.Default(), time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, s.Run(ctx))
	assert.Equal(t, 1, fetcher.calls)
}
