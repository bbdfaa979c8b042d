package ytvideodata

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVideoID(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "GQI72THyO5I", want: "GQI72THyO5I"},
		{in: "https://www.youtube.com/watch?v=GQI72THyO5I", want: "GQI72THyO5I"},
		{in: "https://youtu.be/xmFPS0f-kzs", want: "xmFPS0f-kzs"},
		{in: "https://www.youtube.com/embed/oNNZO9i1Gjc", want: "oNNZO9i1Gjc"},
		{in: "https://m.youtube.com/shorts/YbipxLDtY8c", want: "YbipxLDtY8c"},
		{in: "https://example.com/watch?v=nope", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseVideoID(tt.in), tt.in)
	}
}

func TestGetWithEmbed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "https://www.youtube.com/watch?v=abc", r.URL.Query().Get("url"))
		w.Write([]byte(`{"title":"Justice","author_name":"BibleProject","thumbnail_url":"https://i.ytimg.com/vi/abc/hqdefault.jpg"}`))
	}))
	defer srv.Close()

	c := New(WithBaseURLs(srv.URL, srv.URL))
	data, err := c.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Justice", data.Title)
	assert.Equal(t, "BibleProject", data.AuthorName)
}

func TestGetFallsBackToPage(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/oembed", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	})
	mux.HandleFunc("/abc", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><head><title>Live Worship - YouTube</title></head><body><span itemprop="author"><link itemprop="name" content="TrueVoice"></span></body></html>`))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c := New(WithBaseURLs(srv.URL+"/oembed", srv.URL))
	data, err := c.Get(context.Background(), "abc")
	require.NoError(t, err)
	assert.Equal(t, "Live Worship", data.Title)
	assert.Equal(t, "TrueVoice", data.AuthorName)
	assert.Equal(t, ThumbnailURL("abc"), data.ThumbnailUrl)
}

func TestGetNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	_, err := New(WithBaseURLs(srv.URL, srv.URL)).Get(context.Background(), "zzz")
	assert.ErrorIs(t, err, ErrVideoNotFound)

	_, err = New().Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidVideoID)
}
