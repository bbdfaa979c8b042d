package azuracast

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

const unknownHistoryTitle = "Unknown title"

type Song struct {
	ID     string `json:"id,omitempty"`
	Title  string `json:"title"`
	Artist string `json:"artist"`
	Album  string `json:"album,omitempty"`
	Art    string `json:"art,omitempty"`
}

type HistoryItem struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Art      string `json:"art,omitempty"`
	PlayedAt int64  `json:"played_at,omitempty"`
}

// NowPlaying is the canonical shape of a station snapshot. Song fields are
// left empty when the upstream has no song data.
type NowPlaying struct {
	Song         Song          `json:"song"`
	Listeners    *int          `json:"listeners"`
	IsLive       bool          `json:"is_live"`
	LiveStreamer string        `json:"live_streamer,omitempty"`
	PlayedAt     int64         `json:"played_at,omitempty"`
	Duration     int64         `json:"duration,omitempty"`
	NextPlayedAt int64         `json:"next_played_at,omitempty"`
	History      []HistoryItem `json:"history"`
}

// flexInt accepts numbers and numeric strings; anything else decodes to 0.
type flexInt int64

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	s := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &s); err != nil {
			*f = 0
			return nil
		}
	}

	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		*f = flexInt(i)
		return nil
	}
	if fl, err := strconv.ParseFloat(s, 64); err == nil {
		*f = flexInt(int64(fl))
		return nil
	}

	*f = 0
	return nil
}

// flexString accepts strings and numbers.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}

	*f = flexString(b)
	return nil
}

// listenersField is either a bare count or an object with total/current.
type listenersField struct {
	value *int
}

func (l *listenersField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		return nil
	}

	if b[0] == '{' {
		var obj struct {
			Total   *flexInt `json:"total"`
			Current *flexInt `json:"current"`
		}
		if err := json.Unmarshal(b, &obj); err != nil {
			return err
		}
		switch {
		case obj.Total != nil:
			v := int(*obj.Total)
			l.value = &v
		case obj.Current != nil:
			v := int(*obj.Current)
			l.value = &v
		}
		return nil
	}

	var n flexInt
	if err := n.UnmarshalJSON(b); err != nil {
		return err
	}
	v := int(n)
	l.value = &v
	return nil
}

type rawSong struct {
	ID     flexString `json:"id"`
	Title  string     `json:"title"`
	Artist string     `json:"artist"`
	Album  string     `json:"album"`
	Art    string     `json:"art"`
}

type rawTrack struct {
	Song     *rawSong `json:"song"`
	PlayedAt flexInt  `json:"played_at"`
	Duration flexInt  `json:"duration"`
}

type rawHistoryItem struct {
	ID        flexString `json:"id"`
	SongID    flexString `json:"song_id"`
	Song      *rawSong   `json:"song"`
	Title     string     `json:"title"`
	Artist    string     `json:"artist"`
	Art       string     `json:"art"`
	PlayedAt  flexInt    `json:"played_at"`
	Timestamp flexInt    `json:"timestamp"`
}

type rawLive struct {
	IsLive       bool   `json:"is_live"`
	StreamerName string `json:"streamer_name"`
}

type rawPayload struct {
	NowPlaying   *rawTrack        `json:"now_playing"`
	PlayingNext  *rawTrack        `json:"playing_next"`
	Song         *rawSong         `json:"song"`
	PlayedAt     flexInt          `json:"played_at"`
	Duration     flexInt          `json:"duration"`
	Listeners    listenersField   `json:"listeners"`
	Live         *rawLive         `json:"live"`
	SongHistory  []rawHistoryItem `json:"song_history"`
	RecentTracks []rawHistoryItem `json:"recent_tracks"`
}

// Normalize converts any of the known now-playing payload shapes into a
// NowPlaying. The station object may be the root itself or be nested under
// now_playing.
func Normalize(raw []byte) (*NowPlaying, error) {
	var p rawPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("failed to decode now playing: %w", err)
	}

	current := p.NowPlaying
	if current == nil {
		current = &rawTrack{Song: p.Song, PlayedAt: p.PlayedAt, Duration: p.Duration}
	}

	np := NowPlaying{
		Listeners: p.Listeners.value,
		PlayedAt:  int64(current.PlayedAt),
		Duration:  int64(current.Duration),
		History:   normalizeHistory(p),
	}

	if current.Song != nil {
		np.Song = Song{
			ID:     string(current.Song.ID),
			Title:  current.Song.Title,
			Artist: current.Song.Artist,
			Album:  current.Song.Album,
			Art:    current.Song.Art,
		}
	}

	if p.PlayingNext != nil {
		np.NextPlayedAt = int64(p.PlayingNext.PlayedAt)
	}

	if p.Live != nil {
		np.IsLive = p.Live.IsLive
		np.LiveStreamer = p.Live.StreamerName
	}

	return &np, nil
}

func normalizeHistory(p rawPayload) []HistoryItem {
	source := p.SongHistory
	if source == nil {
		source = p.RecentTracks
	}

	history := make([]HistoryItem, 0, len(source))
	for _, item := range source {
		h := HistoryItem{
			ID:       string(item.ID),
			Title:    item.Title,
			Artist:   item.Artist,
			Art:      item.Art,
			PlayedAt: int64(item.PlayedAt),
		}
		if h.ID == "" {
			h.ID = string(item.SongID)
		}
		if h.PlayedAt == 0 {
			h.PlayedAt = int64(item.Timestamp)
		}
		if s := item.Song; s != nil {
			if s.Title != "" {
				h.Title = s.Title
			}
			if s.Artist != "" {
				h.Artist = s.Artist
			}
			if s.Art != "" {
				h.Art = s.Art
			}
		}
		if h.Title == "" {
			h.Title = unknownHistoryTitle
		}

		history = append(history, h)
	}

	return history
}
