package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/truevoice/server/internal/repository/podcast"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
}

func NewRepo(rc *redis.Client, expireDuration time.Duration) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
	}
}

func (r repo) getEpisodesKey(showID string) string {
	return "podcast:" + showID + ":episodes"
}

func (r repo) SetEpisodes(ctx context.Context, showID string, episodes []podcast.Episode) error {
	b, err := json.Marshal(episodes)
	if err != nil {
		return fmt.Errorf("failed to marshal episodes: %w", err)
	}

	if err := r.rc.Set(ctx, r.getEpisodesKey(showID), b, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set episodes: %w", err)
	}

	return nil
}

func (r repo) GetEpisodes(ctx context.Context, showID string) ([]podcast.Episode, error) {
	b, err := r.rc.Get(ctx, r.getEpisodesKey(showID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, podcast.ErrEpisodesNotFound
		}
		return nil, fmt.Errorf("failed to get episodes: %w", err)
	}

	var episodes []podcast.Episode
	if err := json.Unmarshal(b, &episodes); err != nil {
		return nil, fmt.Errorf("failed to unmarshal episodes: %w", err)
	}

	return episodes, nil
}
