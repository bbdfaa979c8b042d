package controller

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/pkg/rest"
)

func (c controller) getNowPlaying(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.nowPlayingService.Current()})
}

func (c controller) getNowPlayingRaw(w http.ResponseWriter, r *http.Request) {
	raw, err := c.nowPlayingService.Raw(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": raw})
}

func (c controller) getRecentTracks(w http.ResponseWriter, r *http.Request) {
	history, err := c.nowPlayingService.RecentTracks(r.Context())
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": history})
}

type streamResponse struct {
	Primary  string `json:"primary"`
	Fallback string `json:"fallback"`
}

func (c controller) getStream(w http.ResponseWriter, r *http.Request) {
	sources := c.listenerService.Sources()
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": streamResponse{
		Primary:  sources.Primary,
		Fallback: sources.Fallback,
	}})
}

func (c controller) getPodcasts(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.podcastService.Shows(r.Context())})
}

func (c controller) getVerse(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.verseService.Current(r.Context())})
}

type videosQuery struct {
	Section string `json:"section" validate:"omitempty,oneof=watch_live listen_again music_testimonies"`
}

// getVideos lists one section, or every section keyed by name when no
// section is given.
func (c controller) getVideos(w http.ResponseWriter, r *http.Request) {
	query := videosQuery{Section: r.URL.Query().Get("section")}
	if validationErrors, ok := c.validate.Validate(query); !ok {
		c.logger.DebugContext(r.Context(), "invalid videos query", "errors", validationErrors)
		rest.WriteJSON(w, http.StatusBadRequest, rest.Envelope{"errors": validationErrors})
		return
	}

	if query.Section != "" {
		videos, err := c.catalogService.Videos(catalog.VideoSection(query.Section))
		if err != nil {
			c.writeError(w, r, err)
			return
		}

		rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": videos})
		return
	}

	sections := make(map[catalog.VideoSection][]catalog.Video, len(catalog.Sections))
	for _, section := range catalog.Sections {
		videos, err := c.catalogService.Videos(section)
		if err != nil {
			c.writeError(w, r, err)
			return
		}
		sections[section] = videos
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": sections})
}

func (c controller) openVideo(w http.ResponseWriter, r *http.Request) {
	section := catalog.VideoSection(chi.URLParam(r, "section"))

	video, err := c.catalogService.OpenVideo(section)
	if err != nil {
		c.writeError(w, r, err)
		return
	}

	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": video})
}

func (c controller) getReels(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.catalogService.Reels()})
}

func (c controller) getMerch(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.catalogService.Merch()})
}

func (c controller) getDonationLinks(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": c.catalogService.DonationLinks()})
}

func (c controller) getTheme(w http.ResponseWriter, r *http.Request) {
	rest.WriteJSON(w, http.StatusOK, rest.Envelope{"data": map[string]catalog.Theme{
		"theme": c.catalogService.Theme(),
	}})
}
