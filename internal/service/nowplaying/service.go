package nowplaying

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/truevoice/server/internal/repository/nowplaying"
	"github.com/truevoice/server/pkg/azuracast"
)

type iFetcher interface {
	Fetch(ctx context.Context) (*azuracast.NowPlaying, json.RawMessage, error)
}

type iSnapshotRepo interface {
	SetSnapshot(ctx context.Context, snapshot *nowplaying.Snapshot, history []nowplaying.HistoryItem) error
	GetSnapshot(ctx context.Context) (nowplaying.Snapshot, error)
	GetHistory(ctx context.Context, limit int) ([]nowplaying.HistoryItem, error)
	SetRaw(ctx context.Context, raw []byte) error
	GetRaw(ctx context.Context) ([]byte, error)
}

type iPlayback interface {
	AnyPlaying() bool
}

type Config struct {
	PollInterval time.Duration
	TickInterval time.Duration
}

type service struct {
	fetcher      iFetcher
	repo         iSnapshotRepo
	playback     iPlayback
	logger       *slog.Logger
	pollInterval time.Duration
	tickInterval time.Duration
	now          func() time.Time

	mu        sync.RWMutex
	loaded    bool
	fetchErr  error
	latest    *azuracast.NowPlaying
	scheduled *track
	displayed *track
	published *Display
	onChange  []func(Display)

	// set while one goroutine is delivering displays to subscribers
	delivering bool
	dirty      bool
}

func NewService(fetcher iFetcher, repo iSnapshotRepo, playback iPlayback, logger *slog.Logger, cfg *Config) *service {
	pollInterval := cfg.PollInterval
	if pollInterval <= 0 {
		pollInterval = 15 * time.Second
	}

	tickInterval := cfg.TickInterval
	if tickInterval <= 0 {
		tickInterval = time.Second
	}

	return &service{
		fetcher:      fetcher,
		repo:         repo,
		playback:     playback,
		logger:       logger,
		pollInterval: pollInterval,
		tickInterval: tickInterval,
		now:          time.Now,
	}
}

// OnChange registers fn to be called with every new display.
func (s *service) OnChange(fn func(Display)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.onChange = append(s.onChange, fn)
}

// Run polls the station immediately and then every poll interval, and
// re-evaluates the displayed track every tick. It returns when ctx is done.
func (s *service) Run(ctx context.Context) error {
	s.Poll(ctx)

	poll := time.NewTicker(s.pollInterval)
	defer poll.Stop()
	tick := time.NewTicker(s.tickInterval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-poll.C:
			s.Poll(ctx)
		case <-tick.C:
			s.Tick(ctx)
		}
	}
}

// Restore pins the stored snapshot if it is still on air.
func (s *service) Restore(ctx context.Context) error {
	snapshot, err := s.repo.GetSnapshot(ctx)
	if err != nil {
		if errors.Is(err, nowplaying.ErrSnapshotNotFound) {
			return nil
		}
		return err
	}

	if s.now().Unix() >= snapshot.EndsAt {
		return nil
	}

	t := &track{
		key:      trackKey(snapshot.SongID, snapshot.Title),
		songID:   snapshot.SongID,
		title:    snapshot.Title,
		artist:   snapshot.Artist,
		album:    snapshot.Album,
		art:      snapshot.Art,
		playedAt: snapshot.PlayedAt,
		duration: snapshot.DurationSec,
		endsAt:   snapshot.EndsAt,
	}

	s.mu.Lock()
	s.scheduled, s.displayed = t, t
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "restored now playing snapshot", "title", t.title, "ends_at", t.endsAt)
	return nil
}

// Poll fetches the station once. Failures are recorded, never returned.
func (s *service) Poll(ctx context.Context) {
	np, raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}

		s.logger.WarnContext(ctx, "failed to fetch now playing", "error", err)
		s.mu.Lock()
		s.loaded = true
		s.fetchErr = err
		s.mu.Unlock()

		s.publish()
		return
	}

	now := s.now()

	s.mu.Lock()
	s.loaded = true
	s.fetchErr = nil
	s.latest = np
	s.schedule(np, now)
	s.advance(now)
	snapshot := s.snapshotLocked(now)
	s.mu.Unlock()

	if err := s.repo.SetRaw(ctx, raw); err != nil {
		s.logger.InfoContext(ctx, "failed to store raw now playing", "error", err)
	}
	if snapshot != nil {
		if err := s.repo.SetSnapshot(ctx, snapshot, toHistory(np.History)); err != nil {
			s.logger.InfoContext(ctx, "failed to store now playing snapshot", "error", err)
		}
	}

	s.publish()
}

// Tick swaps in the scheduled track once the displayed one has ended.
func (s *service) Tick(ctx context.Context) {
	s.mu.Lock()
	s.advance(s.now())
	s.mu.Unlock()

	s.publish()
}

// Refresh re-publishes the display, e.g. after listener playback changed.
func (s *service) Refresh(ctx context.Context) {
	s.publish()
}

// schedule queues the polled song. A payload without a song title keeps
// whatever is already queued.
func (s *service) schedule(np *azuracast.NowPlaying, now time.Time) {
	if np.Song.Title == "" {
		return
	}

	key := trackKey(np.Song.ID, np.Song.Title)
	if s.scheduled != nil && s.scheduled.key == key {
		return
	}

	playedAt := np.PlayedAt
	if playedAt <= 0 {
		playedAt = now.Unix()
	}

	duration := np.Duration
	if duration <= 0 && np.NextPlayedAt > 0 && np.PlayedAt > 0 {
		duration = np.NextPlayedAt - np.PlayedAt
	}
	if duration <= 0 {
		duration = int64(defaultTrackDuration / time.Second)
	}

	s.scheduled = &track{
		key:      key,
		songID:   np.Song.ID,
		title:    np.Song.Title,
		artist:   np.Song.Artist,
		album:    np.Song.Album,
		art:      np.Song.Art,
		playedAt: playedAt,
		duration: duration,
		endsAt:   playedAt + duration,
	}
}

func (s *service) advance(now time.Time) {
	if s.scheduled == nil || s.scheduled == s.displayed {
		return
	}

	if s.displayed == nil || now.Unix() >= s.displayed.endsAt {
		s.displayed = s.scheduled
	}
}

func (s *service) snapshotLocked(now time.Time) *nowplaying.Snapshot {
	if s.displayed == nil {
		return nil
	}

	snapshot := &nowplaying.Snapshot{
		SongID:      s.displayed.songID,
		Title:       s.displayed.title,
		Artist:      s.displayed.artist,
		Album:       s.displayed.album,
		Art:         s.displayed.art,
		PlayedAt:    s.displayed.playedAt,
		DurationSec: s.displayed.duration,
		EndsAt:      s.displayed.endsAt,
		FetchedAt:   now.Unix(),
	}
	if s.latest != nil {
		snapshot.Listeners = s.latest.Listeners
		snapshot.IsLive = s.latest.IsLive
		snapshot.LiveStreamer = s.latest.LiveStreamer
	}

	return snapshot
}

func (s *service) Current() Display {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.displayLocked()
}

func (s *service) displayLocked() Display {
	d := Display{
		Title:     FallbackTitle,
		Artist:    StationName,
		Album:     StationName,
		LiveLabel: LabelReady,
	}

	if s.displayed == nil {
		if !s.loaded {
			d.Title = LoadingTitle
			d.Loading = true
		}
	} else {
		if s.displayed.title != "" {
			d.Title = s.displayed.title
		}
		if s.displayed.artist != "" {
			d.Artist = s.displayed.artist
		}
		if s.displayed.album != "" {
			d.Album = s.displayed.album
		}
		d.Art = s.displayed.art
		d.EndsAt = s.displayed.endsAt
	}

	if s.latest != nil {
		d.Listeners = s.latest.Listeners
		d.IsLive = s.latest.IsLive
		d.LiveStreamer = s.latest.LiveStreamer
	}

	switch {
	case s.fetchErr != nil:
		d.LiveLabel = LabelOffAir
	case s.playback != nil && s.playback.AnyPlaying():
		d.LiveLabel = LabelStreaming
	}

	return d
}

// publish notifies subscribers when the display differs from the last one
// they saw. Only one goroutine delivers at a time; a publish arriving during
// delivery, including one made from inside a subscriber, is picked up by the
// running deliverer so subscribers always end on the latest display.
func (s *service) publish() {
	s.mu.Lock()
	s.dirty = true
	if s.delivering {
		s.mu.Unlock()
		return
	}
	s.delivering = true

	for s.dirty {
		s.dirty = false
		d := s.displayLocked()
		if s.published != nil && s.published.equal(d) {
			continue
		}
		s.published = &d
		subscribers := append([]func(Display){}, s.onChange...)
		s.mu.Unlock()

		for _, fn := range subscribers {
			fn(d)
		}

		s.mu.Lock()
	}

	s.delivering = false
	s.mu.Unlock()
}

func (s *service) RecentTracks(ctx context.Context) ([]nowplaying.HistoryItem, error) {
	return s.repo.GetHistory(ctx, RecentTracksLimit)
}

// Raw returns the last upstream payload as received.
func (s *service) Raw(ctx context.Context) (json.RawMessage, error) {
	raw, err := s.repo.GetRaw(ctx)
	if err != nil {
		return nil, err
	}

	return json.RawMessage(raw), nil
}

func trackKey(songID, title string) string {
	if songID != "" {
		return "id:" + songID
	}
	return "title:" + title
}

func toHistory(items []azuracast.HistoryItem) []nowplaying.HistoryItem {
	history := make([]nowplaying.HistoryItem, 0, len(items))
	for _, item := range items {
		history = append(history, nowplaying.HistoryItem{
			ID:       item.ID,
			Title:    item.Title,
			Artist:   item.Artist,
			Art:      item.Art,
			PlayedAt: item.PlayedAt,
		})
	}

	return history
}
