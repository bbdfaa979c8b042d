package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/truevoice/server/internal/app"
	"github.com/truevoice/server/pkg/rss2json"
	"github.com/truevoice/server/pkg/votd"
)

type configVar[T any] struct {
	envKey       string
	flagKey      string
	defaultValue T
	usage        string
}

var (
	secret = configVar[string]{
		envKey:       "SERVER_SECRET",
		flagKey:      "secret",
		defaultValue: "",
		usage:        "Secret used to sign listener session tokens",
	}
	port = configVar[int]{
		envKey:       "SERVER_PORT",
		flagKey:      "port",
		defaultValue: 80,
		usage:        "Server port",
	}
	host = configVar[string]{
		envKey:       "SERVER_HOST",
		flagKey:      "host",
		defaultValue: "0.0.0.0",
		usage:        "Server host",
	}
	logLevel = configVar[string]{
		envKey:       "SERVER_LOG_LEVEL",
		flagKey:      "log-level",
		defaultValue: "INFO",
		usage:        "Logging level",
	}
	catalogPath = configVar[string]{
		envKey:       "SERVER_CATALOG_PATH",
		flagKey:      "catalog-path",
		defaultValue: "",
		usage:        "Optional YAML catalog with videos, reels, merch, donations and podcasts",
	}
	timezone = configVar[string]{
		envKey:       "SERVER_TIMEZONE",
		flagKey:      "timezone",
		defaultValue: "UTC",
		usage:        "Station timezone used for the day/night theme",
	}
	sessionTTL = configVar[time.Duration]{
		envKey:       "SERVER_SESSION_TTL",
		flagKey:      "session-ttl",
		defaultValue: 24 * time.Hour,
		usage:        "How long an idle listener session can be resumed",
	}
	azuracastURL = configVar[string]{
		envKey:       "AZURACAST_URL",
		flagKey:      "azuracast-url",
		defaultValue: "https://stream.truevoice.digital",
		usage:        "AzuraCast base URL",
	}
	station = configVar[string]{
		envKey:       "AZURACAST_STATION",
		flagKey:      "azuracast-station",
		defaultValue: "truevoice_digital",
		usage:        "AzuraCast station short name",
	}
	streamURL = configVar[string]{
		envKey:       "AZURACAST_STREAM_URL",
		flagKey:      "stream-url",
		defaultValue: "https://stream.truevoice.digital/radio/8000/radio.mp3",
		usage:        "Primary audio stream URL",
	}
	fallbackStreamURL = configVar[string]{
		envKey:       "AZURACAST_FALLBACK_STREAM_URL",
		flagKey:      "fallback-stream-url",
		defaultValue: "https://stream.truevoice.digital/listen/truevoice_digital/radio.mp3",
		usage:        "Stream URL tried once after the primary fails",
	}
	pollInterval = configVar[time.Duration]{
		envKey:       "AZURACAST_POLL_INTERVAL",
		flagKey:      "poll-interval",
		defaultValue: 15 * time.Second,
		usage:        "Now playing poll interval (15s-30s)",
	}
	rss2jsonURL = configVar[string]{
		envKey:       "SERVER_RSS2JSON_URL",
		flagKey:      "rss2json-url",
		defaultValue: rss2json.DefaultBaseURL,
		usage:        "RSS to JSON proxy base URL",
	}
	podcastCacheTTL = configVar[time.Duration]{
		envKey:       "SERVER_PODCAST_CACHE_TTL",
		flagKey:      "podcast-cache-ttl",
		defaultValue: 30 * time.Minute,
		usage:        "How long podcast episodes are cached",
	}
	verseURL = configVar[string]{
		envKey:       "SERVER_VERSE_URL",
		flagKey:      "verse-url",
		defaultValue: votd.DefaultURL,
		usage:        "Verse of the day endpoint",
	}
	verseRefreshInterval = configVar[time.Duration]{
		envKey:       "SERVER_VERSE_REFRESH_INTERVAL",
		flagKey:      "verse-refresh-interval",
		defaultValue: 6 * time.Hour,
		usage:        "Verse of the day refresh interval",
	}
	redisPort = configVar[int]{
		envKey:       "REDIS_PORT",
		flagKey:      "redis-port",
		defaultValue: 6379,
		usage:        "Redis port",
	}
	redisHost = configVar[string]{
		envKey:       "REDIS_HOST",
		flagKey:      "redis-host",
		defaultValue: "localhost",
		usage:        "Redis host",
	}
	redisPassword = configVar[string]{
		envKey:       "REDIS_PASSWORD",
		flagKey:      "redis-password",
		defaultValue: "",
		usage:        "Redis password",
	}
)

func (v configVar[T]) bind() {
	viper.BindEnv(v.flagKey, v.envKey)
	viper.SetDefault(v.flagKey, v.defaultValue)
}

func loadAppConfig() *app.AppConfig {
	for _, v := range []configVar[string]{secret, host, logLevel, catalogPath, timezone, azuracastURL, station, streamURL, fallbackStreamURL, rss2jsonURL, verseURL, redisHost, redisPassword} {
		pflag.String(v.flagKey, v.defaultValue, v.usage)
		v.bind()
	}
	for _, v := range []configVar[int]{port, redisPort} {
		pflag.Int(v.flagKey, v.defaultValue, v.usage)
		v.bind()
	}
	for _, v := range []configVar[time.Duration]{sessionTTL, pollInterval, podcastCacheTTL, verseRefreshInterval} {
		pflag.Duration(v.flagKey, v.defaultValue, v.usage)
		v.bind()
	}
	pflag.Parse()

	viper.BindPFlags(pflag.CommandLine)

	config := &app.AppConfig{
		Secret:               viper.GetString(secret.flagKey),
		Host:                 viper.GetString(host.flagKey),
		Port:                 viper.GetInt(port.flagKey),
		LogLevel:             viper.GetString(logLevel.flagKey),
		AzuracastURL:         viper.GetString(azuracastURL.flagKey),
		Station:              viper.GetString(station.flagKey),
		StreamURL:            viper.GetString(streamURL.flagKey),
		FallbackStreamURL:    viper.GetString(fallbackStreamURL.flagKey),
		PollInterval:         viper.GetDuration(pollInterval.flagKey),
		RSS2JSONURL:          viper.GetString(rss2jsonURL.flagKey),
		VerseURL:             viper.GetString(verseURL.flagKey),
		VerseRefreshInterval: viper.GetDuration(verseRefreshInterval.flagKey),
		PodcastCacheTTL:      viper.GetDuration(podcastCacheTTL.flagKey),
		SessionTTL:           viper.GetDuration(sessionTTL.flagKey),
		CatalogPath:          viper.GetString(catalogPath.flagKey),
		Timezone:             viper.GetString(timezone.flagKey),
		RedisPort:            viper.GetInt(redisPort.flagKey),
		RedisHost:            viper.GetString(redisHost.flagKey),
		RedisPassword:        viper.GetString(redisPassword.flagKey),
	}

	return config
}

func main() {
	ctx := context.Background()

	appConfig := loadAppConfig()
	if err := appConfig.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	jsonConfig, _ := json.MarshalIndent(appConfig, "", "  ")
	fmt.Printf("starting app with config: %s\n", jsonConfig)

	log.Fatal(app.Run(ctx, appConfig))
}
