package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

func (c controller) GetMux() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(c.requestIdMw)
	r.Use(c.requestLoggingMw)
	r.Use(cors.AllowAll().Handler)

	r.Get("/", c.renderPage)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			w.Write([]byte("OK"))
		})

		r.Route("/now-playing", func(r chi.Router) {
			r.Get("/", c.getNowPlaying)
			r.Get("/raw", c.getNowPlayingRaw)
		})
		r.Get("/recent-tracks", c.getRecentTracks)
		r.Get("/stream", c.getStream)

		r.Get("/podcasts", c.getPodcasts)
		r.Get("/verse", c.getVerse)

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", c.getVideos)
			r.Get("/{section}/open", c.openVideo)
		})
		r.Get("/reels", c.getReels)
		r.Get("/merch", c.getMerch)
		r.Get("/donate", c.getDonationLinks)
		r.Get("/theme", c.getTheme)

		r.Route("/ws", func(r chi.Router) {
			r.Get("/listen", c.listen)
		})
	})

	return r
}
