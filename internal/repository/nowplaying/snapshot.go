package nowplaying

import "errors"

var (
	ErrSnapshotNotFound = errors.New("now playing snapshot not found")
	ErrRawNotFound      = errors.New("raw now playing payload not found")
)

type Snapshot struct {
	SongID       string `redis:"song_id"`
	Title        string `redis:"title"`
	Artist       string `redis:"artist"`
	Album        string `redis:"album"`
	Art          string `redis:"art"`
	Listeners    *int   `redis:"listeners"`
	IsLive       bool   `redis:"is_live"`
	LiveStreamer string `redis:"live_streamer"`
	PlayedAt     int64  `redis:"played_at"`
	DurationSec  int64  `redis:"duration_sec"`
	EndsAt       int64  `redis:"ends_at"`
	FetchedAt    int64  `redis:"fetched_at"`
}

type HistoryItem struct {
	ID       string `json:"id,omitempty"`
	Title    string `json:"title"`
	Artist   string `json:"artist"`
	Art      string `json:"art,omitempty"`
	PlayedAt int64  `json:"played_at,omitempty"`
}
