package nowplaying

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	nowplayingRedis "github.com/truevoice/server/internal/repository/nowplaying/redis"
	"github.com/truevoice/server/pkg/azuracast"
)

type fakeFetcher struct {
	np  *azuracast.NowPlaying
	err error
}

func (f *fakeFetcher) Fetch(context.Context) (*azuracast.NowPlaying, json.RawMessage, error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	return f.np, json.RawMessage(`{"station":"truevoice_digital"}`), nil
}

type fakePlayback struct{ playing bool }

func (f *fakePlayback) AnyPlaying() bool { return f.playing }

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

var start = time.Unix(1_700_000_000, 0)

func newTestService(t *testing.T, fetcher iFetcher, playback iPlayback) (*service, *testClock, *[]Display) {
	t.Helper()
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	repo := nowplayingRedis.NewRepo(rc, time.Hour, 50)

	svc := NewService(fetcher, repo, playback, slog.Default(), &Config{})
	clock := &testClock{now: start}
	svc.now = clock.Now

	var published []Display
	svc.OnChange(func(d Display) {
		published = append(published, d)
	})

	return svc, clock, &published
}

func song(id, title string, playedAt, duration int64) *azuracast.NowPlaying {
	listeners := 4
	return &azuracast.NowPlaying{
		Song:      azuracast.Song{ID: id, Title: title, Artist: "Artist " + id},
		Listeners: &listeners,
		PlayedAt:  playedAt,
		Duration:  duration,
		History: []azuracast.HistoryItem{
			{ID: "h1", Title: "Earlier", Artist: "Someone", PlayedAt: playedAt - 200},
		},
	}
}

func TestCurrentBeforeFirstFetch(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeFetcher{}, nil)

	d := svc.Current()
	assert.Equal(t, LoadingTitle, d.Title)
	assert.Equal(t, StationName, d.Artist)
	assert.Equal(t, StationName, d.Album)
	assert.True(t, d.Loading)
	assert.Equal(t, LabelReady, d.LiveLabel)
}

func TestPollHoldsTrackUntilItEnds(t *testing.T) {
	fetcher := &fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}
	svc, clock, published := newTestService(t, fetcher, nil)
	ctx := context.Background()

	svc.Poll(ctx)
	d := svc.Current()
	assert.Equal(t, "Song A", d.Title)
	assert.Equal(t, start.Unix()+200, d.EndsAt)
	require.NotNil(t, d.Listeners)
	assert.Equal(t, 4, *d.Listeners)

	// the station moves on early; A stays on screen
	clock.Set(start.Add(100 * time.Second))
	fetcher.np = song("b", "Song B", start.Unix()+100, 180)
	svc.Poll(ctx)
	assert.Equal(t, "Song A", svc.Current().Title)

	clock.Set(start.Add(199 * time.Second))
	svc.Tick(ctx)
	assert.Equal(t, "Song A", svc.Current().Title)

	clock.Set(start.Add(200 * time.Second))
	svc.Tick(ctx)
	assert.Equal(t, "Song B", svc.Current().Title)

	titles := make([]string, 0, len(*published))
	for _, p := range *published {
		titles = append(titles, p.Title)
	}
	assert.Equal(t, []string{"Song A", "Song B"}, titles)
}

func TestSameSongDoesNotReschedule(t *testing.T) {
	fetcher := &fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}
	svc, clock, _ := newTestService(t, fetcher, nil)
	ctx := context.Background()

	svc.Poll(ctx)
	// same id with different metadata keeps the original hold
	clock.Set(start.Add(50 * time.Second))
	fetcher.np = song("a", "Song A (radio edit)", start.Unix()+50, 999)
	svc.Poll(ctx)

	d := svc.Current()
	assert.Equal(t, "Song A", d.Title)
	assert.Equal(t, start.Unix()+200, d.EndsAt)
}

func TestDurationFallbacks(t *testing.T) {
	tests := []struct {
		name string
		np   *azuracast.NowPlaying
		want int64
	}{
		{
			name: "api duration",
			np:   &azuracast.NowPlaying{Song: azuracast.Song{ID: "a"}, PlayedAt: start.Unix(), Duration: 240},
			want: start.Unix() + 240,
		},
		{
			name: "next track start",
			np:   &azuracast.NowPlaying{Song: azuracast.Song{ID: "a"}, PlayedAt: start.Unix(), NextPlayedAt: start.Unix() + 90},
			want: start.Unix() + 90,
		},
		{
			name: "default",
			np:   &azuracast.NowPlaying{Song: azuracast.Song{ID: "a"}, PlayedAt: start.Unix()},
			want: start.Unix() + 180,
		},
		{
			name: "played at defaults to now",
			np:   &azuracast.NowPlaying{Song: azuracast.Song{ID: "a"}},
			want: start.Unix() + 180,
		},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newTestService(t, &fakeFetcher{np: tt.np}, nil)
			svc.Poll(context.Background())
			assert.Equal(t, tt.want, svc.Current().EndsAt)
		})
	}
}

func TestFetchErrorKeepsLastTrack(t *testing.T) {
	fetcher := &fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}
	svc, _, published := newTestService(t, fetcher, nil)
	ctx := context.Background()

	svc.Poll(ctx)
	fetcher.err = errors.New("connection refused")
	svc.Poll(ctx)

	d := svc.Current()
	assert.Equal(t, "Song A", d.Title)
	assert.Equal(t, LabelOffAir, d.LiveLabel)
	assert.Len(t, *published, 2)

	// unchanged polls push nothing
	svc.Poll(ctx)
	assert.Len(t, *published, 2)

	fetcher.err = nil
	svc.Poll(ctx)
	assert.Equal(t, LabelReady, svc.Current().LiveLabel)
}

func TestFirstFetchErrorShowsFallbackTitle(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeFetcher{err: errors.New("boom")}, nil)

	svc.Poll(context.Background())
	d := svc.Current()
	assert.Equal(t, FallbackTitle, d.Title)
	assert.False(t, d.Loading)
	assert.Equal(t, LabelOffAir, d.LiveLabel)
}

func TestLiveLabelFollowsPlayback(t *testing.T) {
	playback := &fakePlayback{}
	svc, _, published := newTestService(t, &fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}, playback)
	ctx := context.Background()

	svc.Poll(ctx)
	assert.Equal(t, LabelReady, svc.Current().LiveLabel)

	playback.playing = true
	svc.Refresh(ctx)
	assert.Equal(t, LabelStreaming, svc.Current().LiveLabel)
	assert.Equal(t, LabelStreaming, (*published)[len(*published)-1].LiveLabel)
}

func TestEmptySongFallsBack(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeFetcher{np: &azuracast.NowPlaying{}}, nil)

	svc.Poll(context.Background())
	d := svc.Current()
	assert.Equal(t, FallbackTitle, d.Title)
	assert.Equal(t, StationName, d.Artist)
	assert.Nil(t, d.Listeners)
}

func TestEmptyPollDoesNotHoldRealSong(t *testing.T) {
	fetcher := &fakeFetcher{np: &azuracast.NowPlaying{}}
	svc, clock, _ := newTestService(t, fetcher, nil)
	ctx := context.Background()

	svc.Poll(ctx)
	assert.Equal(t, FallbackTitle, svc.Current().Title)
	assert.Zero(t, svc.Current().EndsAt)

	clock.Set(start.Add(15 * time.Second))
	fetcher.np = song("a", "Song A", start.Add(10*time.Second).Unix(), 200)
	svc.Poll(ctx)

	d := svc.Current()
	assert.Equal(t, "Song A", d.Title)
	assert.Equal(t, start.Add(210*time.Second).Unix(), d.EndsAt)

	// a later song-less payload keeps the queued song
	fetcher.np = &azuracast.NowPlaying{}
	svc.Poll(ctx)
	assert.Equal(t, "Song A", svc.Current().Title)
}

func TestPublishFromSubscriberDeliversLatest(t *testing.T) {
	playback := &fakePlayback{}
	svc, _, published := newTestService(t, &fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}, playback)

	// the first delivery flips playback and republishes from inside the
	// subscriber, like a listener dropped during a broadcast
	svc.OnChange(func(d Display) {
		if d.LiveLabel == LabelReady && !d.Loading {
			playback.playing = true
			svc.Refresh(context.Background())
		}
	})

	svc.Poll(context.Background())

	require.Len(t, *published, 2)
	assert.Equal(t, LabelReady, (*published)[0].LiveLabel)
	assert.Equal(t, LabelStreaming, (*published)[1].LiveLabel)
}

type togglePlayback struct{ playing atomic.Bool }

func (p *togglePlayback) AnyPlaying() bool { return p.playing.Load() }

func TestConcurrentPublishEndsOnCurrentDisplay(t *testing.T) {
	playback := &togglePlayback{}
	svc := NewService(&fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}, nil, playback, slog.Default(), &Config{})
	svc.now = func() time.Time { return start }

	var (
		mu   sync.Mutex
		last Display
	)
	svc.OnChange(func(d Display) {
		mu.Lock()
		last = d
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			playback.playing.Store(i%2 == 0)
			svc.Refresh(context.Background())
		}(i)
	}
	wg.Wait()

	svc.Refresh(context.Background())

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, svc.Current().LiveLabel, last.LiveLabel)
}

func TestRecentTracksAndRaw(t *testing.T) {
	np := song("a", "Song A", start.Unix(), 200)
	for i := 0; i < 20; i++ {
		np.History = append(np.History, azuracast.HistoryItem{Title: "Old", PlayedAt: start.Unix() - int64(i)})
	}
	svc, _, _ := newTestService(t, &fakeFetcher{np: np}, nil)
	ctx := context.Background()

	_, err := svc.Raw(ctx)
	assert.Error(t, err)

	svc.Poll(ctx)

	history, err := svc.RecentTracks(ctx)
	require.NoError(t, err)
	assert.Len(t, history, RecentTracksLimit)
	assert.Equal(t, "Earlier", history[0].Title)

	raw, err := svc.Raw(ctx)
	require.NoError(t, err)
	assert.JSONEq(t, `{"station":"truevoice_digital"}`, string(raw))
}

func TestRestore(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	repo := nowplayingRedis.NewRepo(rc, time.Hour, 50)
	ctx := context.Background()

	first := NewService(&fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}, repo, nil, slog.Default(), &Config{})
	first.now = func() time.Time { return start }
	first.Poll(ctx)

	second := NewService(&fakeFetcher{}, repo, nil, slog.Default(), &Config{})
	second.now = func() time.Time { return start.Add(10 * time.Second) }
	require.NoError(t, second.Restore(ctx))
	assert.Equal(t, "Song A", second.Current().Title)

	third := NewService(&fakeFetcher{}, repo, nil, slog.Default(), &Config{})
	third.now = func() time.Time { return start.Add(time.Hour) }
	require.NoError(t, third.Restore(ctx))
	assert.Equal(t, LoadingTitle, third.Current().Title)
}

func TestRunStopsOnCancel(t *testing.T) {
	svc, _, _ := newTestService(t, &fakeFetcher{np: song("a", "Song A", start.Unix(), 200)}, nil)
	svc.pollInterval = 5 * time.Millisecond
	svc.tickInterval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- svc.Run(ctx) }()

	require.Eventually(t, func() bool {
		return svc.Current().Title == "Song A"
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}
