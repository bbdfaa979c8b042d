package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truevoice/server/internal/repository/podcast"
)

func TestEpisodesCache(t *testing.T) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	defer rc.Close()

	r := NewRepo(rc, 30*time.Minute)
	ctx := context.Background()

	_, err := r.GetEpisodes(ctx, "bibleproject")
	assert.ErrorIs(t, err, podcast.ErrEpisodesNotFound)

	episodes := []podcast.Episode{{Title: "Ep 1", URL: "https://cdn/1.mp3"}}
	require.NoError(t, r.SetEpisodes(ctx, "bibleproject", episodes))

	got, err := r.GetEpisodes(ctx, "bibleproject")
	require.NoError(t, err)
	assert.Equal(t, episodes, got)

	s.FastForward(31 * time.Minute)
	_, err = r.GetEpisodes(ctx, "bibleproject")
	assert.ErrorIs(t, err, podcast.ErrEpisodesNotFound)
}
