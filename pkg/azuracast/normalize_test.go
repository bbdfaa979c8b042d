package azuracast

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeWrapped(t *testing.T) {
	raw := []byte(`{
		"listeners": {"total": 12, "current": 9},
		"live": {"is_live": true, "streamer_name": "Pastor Dan"},
		"now_playing": {
			"played_at": 1700000000,
			"duration": 240,
			"song": {"id": "abc", "title": "Way Maker", "artist": "Sinach", "album": "Way Maker", "art": "https://art/1.jpg"}
		},
		"playing_next": {"played_at": 1700000240},
		"song_history": [
			{"sh_id": 1, "played_at": 1699999760, "song": {"id": "x1", "title": "Goodness of God", "artist": "Bethel"}},
			{"song_id": "x2", "timestamp": 1699999500}
		]
	}`)

	np, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "abc", np.Song.ID)
	assert.Equal(t, "Way Maker", np.Song.Title)
	assert.Equal(t, "Sinach", np.Song.Artist)
	assert.Equal(t, "https://art/1.jpg", np.Song.Art)
	require.NotNil(t, np.Listeners)
	assert.Equal(t, 12, *np.Listeners)
	assert.True(t, np.IsLive)
	assert.Equal(t, "Pastor Dan", np.LiveStreamer)
	assert.Equal(t, int64(1700000000), np.PlayedAt)
	assert.Equal(t, int64(240), np.Duration)
	assert.Equal(t, int64(1700000240), np.NextPlayedAt)

	require.Len(t, np.History, 2)
	assert.Equal(t, "Goodness of God", np.History[0].Title)
	assert.Equal(t, "Bethel", np.History[0].Artist)
	assert.Equal(t, int64(1699999760), np.History[0].PlayedAt)
	assert.Equal(t, "x2", np.History[1].ID)
	assert.Equal(t, unknownHistoryTitle, np.History[1].Title)
	assert.Equal(t, int64(1699999500), np.History[1].PlayedAt)
}

func TestNormalizeUnwrapped(t *testing.T) {
	raw := []byte(`{
		"song": {"title": "Firm Foundation", "artist": "Maverick City"},
		"played_at": "1700000100",
		"listeners": 7,
		"recent_tracks": [{"title": "Graves Into Gardens", "artist": "Elevation", "id": 5}]
	}`)

	np, err := Normalize(raw)
	require.NoError(t, err)

	assert.Equal(t, "Firm Foundation", np.Song.Title)
	assert.Equal(t, int64(1700000100), np.PlayedAt)
	require.NotNil(t, np.Listeners)
	assert.Equal(t, 7, *np.Listeners)
	assert.False(t, np.IsLive)
	require.Len(t, np.History, 1)
	assert.Equal(t, "5", np.History[0].ID)
}

func TestNormalizeListenerShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want *int
	}{
		{"current only", `{"listeners": {"current": 3}}`, intPtr(3)},
		{"bare number", `{"listeners": 4}`, intPtr(4)},
		{"missing", `{}`, nil},
		{"null", `{"listeners": null}`, nil},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			np, err := Normalize([]byte(tt.raw))
			require.NoError(t, err)
			assert.Equal(t, tt.want, np.Listeners)
		})
	}
}

func TestNormalizeSongHistoryWinsOverRecentTracks(t *testing.T) {
	np, err := Normalize([]byte(`{"song_history": [], "recent_tracks": [{"title": "a"}]}`))
	require.NoError(t, err)
	assert.Empty(t, np.History)
}

func TestNormalizeNoSongData(t *testing.T) {
	np, err := Normalize([]byte(`{"now_playing": {}}`))
	require.NoError(t, err)
	assert.Empty(t, np.Song.Title)
	assert.Empty(t, np.Song.Artist)
}

func TestNormalizeInvalidJSON(t *testing.T) {
	_, err := Normalize([]byte(`[`))
	assert.Error(t, err)
}

func TestClientFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/nowplaying/truevoice_digital", r.URL.Path)
		w.Write([]byte(`{"now_playing": {"song": {"title": "Jireh"}}}`))
	}))
	defer srv.Close()

	c := NewClient(&Config{BaseURL: srv.URL + "/", Station: "truevoice_digital"})
	np, raw, err := c.Fetch(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Jireh", np.Song.Title)
	assert.Contains(t, string(raw), "Jireh")
}

func TestClientFetchErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	_, _, err := NewClient(&Config{BaseURL: srv.URL, Station: "s"}).Fetch(context.Background())
	assert.True(t, errors.Is(err, ErrUnexpectedStatus))

	_, err = NewClient(&Config{BaseURL: "", Station: "s"}).FetchRaw(context.Background())
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func intPtr(v int) *int {
	return &v
}
