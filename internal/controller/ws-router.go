package controller

import (
	"github.com/truevoice/server/pkg/wsrouter"
)

func (c controller) getWSRouter() *wsrouter.WSRouter {
	mux := wsrouter.New()
	mux.Use(c.wsRequestIdWSMw(), c.loggerWSMw())
	mux.OnError(c.handleWSError)

	wsrouter.Handle(mux, "ALIVE", c.handleAlive)

	// player
	wsrouter.Handle(mux, "REQUEST_PLAY", c.handleRequestPlay)
	wsrouter.Handle(mux, "REQUEST_STOP", c.handleRequestStop)
	wsrouter.Handle(mux, "MEDIA_EVENT", c.handleMediaEvent)
	wsrouter.Handle(mux, "PLAY_BLOCKED", c.handlePlayBlocked)

	return mux
}
