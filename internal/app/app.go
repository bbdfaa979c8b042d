package app

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/truevoice/server/internal/controller"
	"github.com/truevoice/server/internal/player"
	"github.com/truevoice/server/internal/repository/connection/inmemory"
	listenerRedis "github.com/truevoice/server/internal/repository/listener/redis"
	nowplayingRedis "github.com/truevoice/server/internal/repository/nowplaying/redis"
	podcastRedis "github.com/truevoice/server/internal/repository/podcast/redis"
	"github.com/truevoice/server/internal/service/catalog"
	"github.com/truevoice/server/internal/service/listener"
	"github.com/truevoice/server/internal/service/nowplaying"
	"github.com/truevoice/server/internal/service/podcast"
	"github.com/truevoice/server/internal/service/verse"
	"github.com/truevoice/server/pkg/azuracast"
	"github.com/truevoice/server/pkg/ctxlogger"
	"github.com/truevoice/server/pkg/redisclient"
	"github.com/truevoice/server/pkg/rss2json"
	"github.com/truevoice/server/pkg/votd"
	"github.com/truevoice/server/pkg/ytvideodata"
	"golang.org/x/sync/errgroup"
)

const (
	minPollInterval = 15 * time.Second
	maxPollInterval = 30 * time.Second

	themeInterval   = time.Minute
	historyLimit    = 50
	upstreamTimeout = 10 * time.Second
)

type AppConfig struct {
	Secret               string        `json:"-"`
	Host                 string        `json:"host"`
	Port                 int           `json:"port"`
	LogLevel             string        `json:"log_level"`
	AzuracastURL         string        `json:"azuracast_url"`
	Station              string        `json:"station"`
	StreamURL            string        `json:"stream_url"`
	FallbackStreamURL    string        `json:"fallback_stream_url"`
	PollInterval         time.Duration `json:"poll_interval"`
	RSS2JSONURL          string        `json:"rss2json_url"`
	VerseURL             string        `json:"verse_url"`
	VerseRefreshInterval time.Duration `json:"verse_refresh_interval"`
	PodcastCacheTTL      time.Duration `json:"podcast_cache_ttl"`
	SessionTTL           time.Duration `json:"session_ttl"`
	CatalogPath          string        `json:"catalog_path"`
	Timezone             string        `json:"timezone"`
	RedisPort            int           `json:"redis_port"`
	RedisHost            string        `json:"redis_host"`
	RedisPassword        string        `json:"-"`
}

func (cfg *AppConfig) Validate() error {
	if cfg.Secret == "" {
		return errors.New("secret must be set")
	}
	if cfg.Port < 1 || cfg.Port > 65535 {
		return fmt.Errorf("port %d is out of range", cfg.Port)
	}
	if cfg.AzuracastURL == "" || cfg.Station == "" {
		return errors.New("azuracast url and station must be set")
	}
	if cfg.StreamURL == "" {
		return errors.New("stream url must be set")
	}
	if cfg.PollInterval < minPollInterval || cfg.PollInterval > maxPollInterval {
		return fmt.Errorf("poll interval must be between %s and %s", minPollInterval, maxPollInterval)
	}
	if cfg.SessionTTL <= 0 || cfg.PodcastCacheTTL <= 0 {
		return errors.New("session ttl and podcast cache ttl must be positive")
	}
	if _, err := time.LoadLocation(cfg.Timezone); err != nil {
		return fmt.Errorf("invalid timezone: %w", err)
	}
	return nil
}

func newLogger(level string) (*slog.Logger, error) {
	logLevel := slog.LevelInfo
	if err := logLevel.UnmarshalText([]byte(strings.ToUpper(level))); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	h := ctxlogger.ContextHandler{
		Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:     logLevel,
			AddSource: true,
		}),
	}

	return slog.New(&h), nil
}

// station holds the wired services and the background workers that keep
// them fresh.
type station struct {
	handler http.Handler
	workers []func(context.Context) error
}

func newStation(ctx context.Context, cfg *AppConfig, rc *redis.Client, logger *slog.Logger) (*station, error) {
	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("failed to load timezone: %w", err)
	}

	catalogService := catalog.NewService(ytvideodata.New(), logger, &catalog.Config{
		Location: loc,
	})
	if cfg.CatalogPath != "" {
		if err := catalogService.Load(cfg.CatalogPath); err != nil {
			return nil, err
		}
	}

	connectionRepo := inmemory.NewRepo(logger)
	listenerService := listener.NewService(listenerRedis.NewRepo(rc, cfg.SessionTTL), connectionRepo, logger, &listener.Config{
		Secret: cfg.Secret,
		Sources: player.Sources{
			Primary:  cfg.StreamURL,
			Fallback: cfg.FallbackStreamURL,
		},
	})

	nowPlayingService := nowplaying.NewService(
		azuracast.NewClient(&azuracast.Config{
			BaseURL: cfg.AzuracastURL,
			Station: cfg.Station,
			Timeout: upstreamTimeout,
		}),
		nowplayingRedis.NewRepo(rc, time.Hour, historyLimit),
		listenerService,
		logger,
		&nowplaying.Config{PollInterval: cfg.PollInterval},
	)
	if err := nowPlayingService.Restore(ctx); err != nil {
		logger.WarnContext(ctx, "failed to restore now playing snapshot", "error", err)
	}

	podcastService := podcast.NewService(
		rss2json.NewClient(cfg.RSS2JSONURL, upstreamTimeout),
		podcastRedis.NewRepo(rc, cfg.PodcastCacheTTL),
		catalogService,
		logger,
	)
	verseService := verse.NewService(votd.NewClient(cfg.VerseURL, upstreamTimeout), logger, cfg.VerseRefreshInterval)

	c := controller.NewController(nowPlayingService, listenerService, podcastService, verseService, catalogService, logger)
	nowPlayingService.OnChange(c.BroadcastNowPlaying)
	listenerService.OnPlaybackChange(nowPlayingService.Refresh)

	return &station{
		handler: c.GetMux(),
		workers: []func(context.Context) error{
			nowPlayingService.Run,
			verseService.Run,
			func(ctx context.Context) error {
				return catalogService.RunThemeClock(ctx, themeInterval, c.BroadcastTheme)
			},
			catalogService.RunEnrichment,
		},
	}, nil
}

func (s *station) runWorkers(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, worker := range s.workers {
		worker := worker
		g.Go(func() error {
			return worker(gctx)
		})
	}

	return g.Wait()
}

func Run(ctx context.Context, cfg *AppConfig) error {
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		return err
	}

	rc, err := redisclient.NewRedisClient(ctx, &redisclient.Config{
		Port:     cfg.RedisPort,
		Host:     cfg.RedisHost,
		Password: cfg.RedisPassword,
	})
	if err != nil {
		return fmt.Errorf("failed to create redis client: %w", err)
	}
	defer rc.Close()

	st, err := newStation(ctx, cfg, rc, logger)
	if err != nil {
		return err
	}

	server := &http.Server{Addr: fmt.Sprintf("%s:%d", cfg.Host, cfg.Port), Handler: st.handler}

	// graceful shutdown
	serverCtx, serverStopCtx := context.WithCancel(ctx)
	defer serverStopCtx()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGHUP, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	go func() {
		<-sig

		shutdownCtx, c := context.WithTimeout(serverCtx, 30*time.Second)
		defer c()

		go func() {
			<-shutdownCtx.Done()
			if shutdownCtx.Err() == context.DeadlineExceeded {
				log.Fatal("graceful shutdown timed out.. forcing exit.")
			}
		}()

		err := server.Shutdown(shutdownCtx)
		if err != nil {
			log.Fatal(err)
		}
		serverStopCtx()
	}()

	workersDone := make(chan error, 1)
	go func() {
		workersDone <- st.runWorkers(serverCtx)
	}()

	logger.InfoContext(serverCtx, "starting server", "address", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	<-serverCtx.Done()

	return <-workersDone
}
