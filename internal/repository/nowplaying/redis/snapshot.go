package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
	"github.com/truevoice/server/internal/repository/nowplaying"
	omitnilpointers "github.com/truevoice/server/pkg/omit-nil-pointers"
)

// SetSnapshot replaces the stored snapshot and its history in one
// transaction.
func (r repo) SetSnapshot(ctx context.Context, snapshot *nowplaying.Snapshot, history []nowplaying.HistoryItem) error {
	pipe := r.rc.TxPipeline()

	pipe.Del(ctx, snapshotKey, historyKey)
	pipe.HSet(ctx, snapshotKey, omitnilpointers.StructFields(snapshot, "redis"))
	pipe.Expire(ctx, snapshotKey, r.expireDuration)

	if len(history) > 0 {
		values := make([]any, 0, len(history))
		for _, item := range history {
			b, err := json.Marshal(item)
			if err != nil {
				pipe.Discard()
				return fmt.Errorf("failed to marshal history item: %w", err)
			}
			values = append(values, b)
		}
		pipe.RPush(ctx, historyKey, values...)
		pipe.LTrim(ctx, historyKey, 0, r.historyLimit-1)
		pipe.Expire(ctx, historyKey, r.expireDuration)
	}

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set snapshot: %w", err)
	}

	return nil
}

func (r repo) GetSnapshot(ctx context.Context) (nowplaying.Snapshot, error) {
	fields, err := r.rc.HGetAll(ctx, snapshotKey).Result()
	if err != nil {
		return nowplaying.Snapshot{}, fmt.Errorf("failed to get snapshot: %w", err)
	}

	if len(fields) == 0 {
		return nowplaying.Snapshot{}, nowplaying.ErrSnapshotNotFound
	}

	snapshot := nowplaying.Snapshot{
		SongID:       fields["song_id"],
		Title:        fields["title"],
		Artist:       fields["artist"],
		Album:        fields["album"],
		Art:          fields["art"],
		IsLive:       r.fieldToBool(fields["is_live"]),
		LiveStreamer: fields["live_streamer"],
		PlayedAt:     r.fieldToInt64(fields["played_at"]),
		DurationSec:  r.fieldToInt64(fields["duration_sec"]),
		EndsAt:       r.fieldToInt64(fields["ends_at"]),
		FetchedAt:    r.fieldToInt64(fields["fetched_at"]),
	}
	if v, ok := fields["listeners"]; ok {
		if listeners, err := strconv.Atoi(v); err == nil {
			snapshot.Listeners = &listeners
		}
	}

	return snapshot, nil
}

// GetHistory returns up to limit items, most recent first.
func (r repo) GetHistory(ctx context.Context, limit int) ([]nowplaying.HistoryItem, error) {
	if limit <= 0 {
		return []nowplaying.HistoryItem{}, nil
	}

	values, err := r.rc.LRange(ctx, historyKey, 0, int64(limit)-1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get history: %w", err)
	}

	history := make([]nowplaying.HistoryItem, 0, len(values))
	for _, v := range values {
		var item nowplaying.HistoryItem
		if err := json.Unmarshal([]byte(v), &item); err != nil {
			return nil, fmt.Errorf("failed to unmarshal history item: %w", err)
		}
		history = append(history, item)
	}

	return history, nil
}

func (r repo) SetRaw(ctx context.Context, raw []byte) error {
	if err := r.rc.Set(ctx, rawKey, raw, r.expireDuration).Err(); err != nil {
		return fmt.Errorf("failed to set raw payload: %w", err)
	}

	return nil
}

func (r repo) GetRaw(ctx context.Context) ([]byte, error) {
	raw, err := r.rc.Get(ctx, rawKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nowplaying.ErrRawNotFound
		}
		return nil, fmt.Errorf("failed to get raw payload: %w", err)
	}

	return raw, nil
}
