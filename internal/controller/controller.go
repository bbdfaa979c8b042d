package controller

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/truevoice/server/internal/player"
	nowplayingRepo "github.com/truevoice/server/internal/repository/nowplaying"
	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/internal/service/listener"
	"github.com/truevoice/server/internal/service/nowplaying"
	"github.com/truevoice/server/internal/service/podcast"
	"github.com/truevoice/server/pkg/validator"
	"github.com/truevoice/server/pkg/votd"
	"github.com/truevoice/server/pkg/wsrouter"
)

type iNowPlayingService interface {
	Current() nowplaying.Display
	RecentTracks(context.Context) ([]nowplayingRepo.HistoryItem, error)
	Raw(context.Context) (json.RawMessage, error)
}

type iListenerService interface {
	Connect(ctx context.Context, conn *websocket.Conn, token string) (*listener.ConnectResponse, error)
	Disconnect(context.Context, *websocket.Conn) error
	Alive(ctx context.Context, sessionID string) error
	RequestPlay(ctx context.Context, sessionID string) (*listener.UpdateResponse, error)
	RequestStop(ctx context.Context, sessionID string) (*listener.UpdateResponse, error)
	PlayBlocked(ctx context.Context, sessionID string) (*listener.UpdateResponse, error)
	MediaEvent(ctx context.Context, sessionID string, event player.MediaEvent) (*listener.UpdateResponse, error)
	Sources() player.Sources
	Send(sessionID string, v any) error
	Broadcast(ctx context.Context, v any)
}

type iPodcastService interface {
	Shows(context.Context) []podcast.Show
}

type iVerseService interface {
	Current(context.Context) votd.Verse
}

type iCatalogService interface {
	Videos(catalog.VideoSection) ([]catalog.Video, error)
	OpenVideo(catalog.VideoSection) (catalog.Video, error)
	Reels() []catalog.ReelChannel
	Merch() []catalog.MerchProduct
	DonationLinks() []catalog.DonationLink
	Theme() catalog.Theme
}

type controller struct {
	nowPlayingService iNowPlayingService
	listenerService   iListenerService
	podcastService    iPodcastService
	verseService      iVerseService
	catalogService    iCatalogService
	upgrader          websocket.Upgrader
	wsmux             *wsrouter.WSRouter
	validate          *validator.Validator
	logger            *slog.Logger
}

func NewController(
	nowPlayingService iNowPlayingService,
	listenerService iListenerService,
	podcastService iPodcastService,
	verseService iVerseService,
	catalogService iCatalogService,
	logger *slog.Logger,
) *controller {
	c := &controller{
		nowPlayingService: nowPlayingService,
		listenerService:   listenerService,
		podcastService:    podcastService,
		verseService:      verseService,
		catalogService:    catalogService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		validate: validator.NewValidator(),
		logger:   logger,
	}
	c.wsmux = c.getWSRouter()

	return c
}
