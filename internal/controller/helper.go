package controller

import (
	"errors"
	"net/http"

	"github.com/truevoice/server/internal/repository/listener"
	"github.com/truevoice/server/internal/repository/nowplaying"
	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/pkg/rest"
)

func (c controller) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, catalog.ErrUnknownSection):
		status = http.StatusBadRequest
	case errors.Is(err, catalog.ErrNoActiveVideo),
		errors.Is(err, nowplaying.ErrRawNotFound),
		errors.Is(err, listener.ErrSessionNotFound):
		status = http.StatusNotFound
	}

	if status == http.StatusInternalServerError {
		c.logger.ErrorContext(r.Context(), "request failed", "error", err)
		rest.WriteJSON(w, status, rest.Envelope{"error": http.StatusText(status)})
		return
	}

	c.logger.DebugContext(r.Context(), "request rejected", "error", err)
	rest.WriteJSON(w, status, rest.Envelope{"error": err.Error()})
}
