package controller

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/truevoice/server/pkg/ctxlogger"
)

// listen upgrades to a websocket and serves one listener session on it.
// A session-token query parameter resumes an earlier session.
func (c controller) listen(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("session-token")

	conn, err := c.upgrader.Upgrade(w, r, nil)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to upgrade to websocket", "error", err)
		return
	}
	defer conn.Close()

	connectResponse, err := c.listenerService.Connect(r.Context(), conn, token)
	if err != nil {
		c.logger.WarnContext(r.Context(), "failed to connect listener", "error", err)
		return
	}

	ctx := context.WithValue(r.Context(), sessionIdCtxKey, connectResponse.Session.ID)
	ctx = ctxlogger.AppendCtx(ctx, slog.String("session_id", connectResponse.Session.ID))
	defer c.disconnect(ctx, conn)

	if err := c.listenerService.Send(connectResponse.Session.ID, &Output{
		Type: "SESSION_STARTED",
		Payload: map[string]any{
			"session_token": connectResponse.SessionToken,
			"session":       connectResponse.Session,
			"resumed":       connectResponse.Resumed,
			"now_playing":   c.nowPlayingService.Current(),
			"theme":         c.catalogService.Theme(),
		},
	}); err != nil {
		c.logger.WarnContext(ctx, "failed to send session started", "error", err)
		return
	}

	if err := c.wsmux.ServeConn(ctx, conn); err != nil {
		c.logger.InfoContext(ctx, "listener connection closed", "error", err)
	}
}
