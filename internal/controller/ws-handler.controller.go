package controller

import (
	"context"
	"fmt"

	"github.com/gorilla/websocket"
	"github.com/truevoice/server/internal/player"
	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/internal/service/listener"
	"github.com/truevoice/server/internal/service/nowplaying"
)

type Output struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

type EmptyInput struct{}

func (c controller) disconnect(ctx context.Context, conn *websocket.Conn) {
	if err := c.listenerService.Disconnect(ctx, conn); err != nil {
		c.logger.DebugContext(ctx, "failed to disconnect listener", "error", err)
	}
}

func (c controller) handleAlive(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	if err := c.listenerService.Alive(ctx, c.getSessionIdFromCtx(ctx)); err != nil {
		return fmt.Errorf("failed to extend session: %w", err)
	}

	return nil
}

func (c controller) handleRequestPlay(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	resp, err := c.listenerService.RequestPlay(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to request play: %w", err)
	}

	return c.sendSessionUpdated(ctx, resp)
}

func (c controller) handleRequestStop(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	resp, err := c.listenerService.RequestStop(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to request stop: %w", err)
	}

	return c.sendSessionUpdated(ctx, resp)
}

func (c controller) handlePlayBlocked(ctx context.Context, _ *websocket.Conn, _ EmptyInput) error {
	resp, err := c.listenerService.PlayBlocked(ctx, c.getSessionIdFromCtx(ctx))
	if err != nil {
		return fmt.Errorf("failed to record blocked play: %w", err)
	}

	return c.sendSessionUpdated(ctx, resp)
}

type MediaEventInput struct {
	Event string `json:"event" validate:"required,oneof=play pause ended error"`
}

func (c controller) handleMediaEvent(ctx context.Context, _ *websocket.Conn, input MediaEventInput) error {
	if validationErrors, ok := c.validate.Validate(input); !ok {
		return fmt.Errorf("invalid media event: %v", validationErrors)
	}

	resp, err := c.listenerService.MediaEvent(ctx, c.getSessionIdFromCtx(ctx), player.MediaEvent(input.Event))
	if err != nil {
		return fmt.Errorf("failed to handle media event: %w", err)
	}

	return c.sendSessionUpdated(ctx, resp)
}

func (c controller) sendSessionUpdated(ctx context.Context, resp *listener.UpdateResponse) error {
	if err := c.listenerService.Send(c.getSessionIdFromCtx(ctx), &Output{
		Type: "SESSION_UPDATED",
		Payload: map[string]any{
			"session":    resp.Session,
			"transition": resp.Transition,
		},
	}); err != nil {
		return fmt.Errorf("failed to send session updated: %w", err)
	}

	return nil
}

func (c controller) handleWSError(ctx context.Context, _ *websocket.Conn, err error) {
	c.logger.InfoContext(ctx, "websocket message failed", "error", err)

	if err := c.listenerService.Send(c.getSessionIdFromCtx(ctx), &Output{
		Type: "ERROR",
		Payload: map[string]any{
			"message": err.Error(),
		},
	}); err != nil {
		c.logger.DebugContext(ctx, "failed to send error", "error", err)
	}
}

// BroadcastNowPlaying pushes a new now-playing display to every listener.
func (c controller) BroadcastNowPlaying(d nowplaying.Display) {
	c.listenerService.Broadcast(context.Background(), &Output{
		Type: "NOW_PLAYING_UPDATED",
		Payload: map[string]any{
			"now_playing": d,
		},
	})
}

func (c controller) BroadcastTheme(theme catalog.Theme) {
	c.listenerService.Broadcast(context.Background(), &Output{
		Type: "THEME_UPDATED",
		Payload: map[string]any{
			"theme": theme,
		},
	})
}
