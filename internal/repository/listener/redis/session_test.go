package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truevoice/server/internal/repository/listener"
)

func newTestRepo(t *testing.T) (*repo, *miniredis.Miniredis) {
	s := miniredis.RunT(t)
	rc := redis.NewClient(&redis.Options{Addr: s.Addr()})
	t.Cleanup(func() { rc.Close() })

	return NewRepo(rc, time.Hour), s
}

func TestSessionLifecycle(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	now := time.Unix(1700000000, 0)
	require.NoError(t, r.SetSession(ctx, &listener.SetSessionParams{
		ID:           "s1",
		State:        "starting",
		Source:       "https://primary",
		FallbackUsed: true,
		UpdatedAt:    now,
	}))
	assert.Equal(t, time.Hour, s.TTL("listener:s1"))

	session, err := r.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, listener.Session{
		ID:           "s1",
		State:        "starting",
		Source:       "https://primary",
		FallbackUsed: true,
		UpdatedAt:    now.Unix(),
	}, session)

	require.NoError(t, r.RemoveSession(ctx, "s1"))
	_, err = r.GetSession(ctx, "s1")
	assert.ErrorIs(t, err, listener.ErrSessionNotFound)
	assert.ErrorIs(t, r.RemoveSession(ctx, "s1"), listener.ErrSessionNotFound)
}

func TestSessionExpires(t *testing.T) {
	r, s := newTestRepo(t)
	ctx := context.Background()

	require.NoError(t, r.SetSession(ctx, &listener.SetSessionParams{ID: "s2", State: "idle", UpdatedAt: time.Now()}))
	s.FastForward(2 * time.Hour)

	_, err := r.GetSession(ctx, "s2")
	assert.ErrorIs(t, err, listener.ErrSessionNotFound)
}
