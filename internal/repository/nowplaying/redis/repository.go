package redis

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	snapshotKey = "nowplaying:snapshot"
	historyKey  = "nowplaying:history"
	rawKey      = "nowplaying:raw"
)

type repo struct {
	rc             *redis.Client
	expireDuration time.Duration
	historyLimit   int64
}

func NewRepo(rc *redis.Client, expireDuration time.Duration, historyLimit int) *repo {
	return &repo{
		rc:             rc,
		expireDuration: expireDuration,
		historyLimit:   int64(historyLimit),
	}
}

func (r repo) executePipe(ctx context.Context, pipe redis.Pipeliner) error {
	cmds, err := pipe.Exec(ctx)
	if err != nil {
		for _, cmd := range cmds {
			if err := cmd.Err(); err != nil {
				return err
			}
		}

		return err
	}

	return nil
}

func (r repo) fieldToBool(field string) bool {
	return field == "1"
}

func (r repo) fieldToInt64(field string) int64 {
	i, _ := strconv.ParseInt(field, 10, 64)
	return i
}
