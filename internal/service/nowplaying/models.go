package nowplaying

import "time"

const (
	LabelOffAir    = "OFF AIR"
	LabelStreaming = "NOW STREAMING"
	LabelReady     = "READY"

	LoadingTitle  = "Loading current track…"
	FallbackTitle = "Live Stream"
	StationName   = "TrueVoice Digital"

	RecentTracksLimit = 12

	defaultTrackDuration = 180 * time.Second
)

// track is a song pinned on screen until EndsAt.
type track struct {
	key      string
	songID   string
	title    string
	artist   string
	album    string
	art      string
	playedAt int64
	duration int64
	endsAt   int64
}

// Display is what listeners see in the now-playing card.
type Display struct {
	Title        string `json:"title"`
	Artist       string `json:"artist"`
	Album        string `json:"album"`
	Art          string `json:"art,omitempty"`
	Listeners    *int   `json:"listeners"`
	IsLive       bool   `json:"is_live"`
	LiveStreamer string `json:"live_streamer,omitempty"`
	LiveLabel    string `json:"live_label"`
	Loading      bool   `json:"loading"`
	EndsAt       int64  `json:"ends_at,omitempty"`
}

func (d Display) equal(o Display) bool {
	if (d.Listeners == nil) != (o.Listeners == nil) {
		return false
	}
	if d.Listeners != nil && *d.Listeners != *o.Listeners {
		return false
	}

	d.Listeners, o.Listeners = nil, nil
	return d == o
}
