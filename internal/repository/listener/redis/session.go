package redis

import (
	"context"
	"fmt"

	"github.com/truevoice/server/internal/repository/listener"
	omitnilpointers "github.com/truevoice/server/pkg/omit-nil-pointers"
)

func (r repo) getSessionKey(sessionID string) string {
	return "listener:" + sessionID
}

func (r repo) SetSession(ctx context.Context, params *listener.SetSessionParams) error {
	session := listener.Session{
		ID:           params.ID,
		State:        params.State,
		Source:       params.Source,
		FallbackUsed: params.FallbackUsed,
		Prompt:       params.Prompt,
		UpdatedAt:    params.UpdatedAt.Unix(),
	}

	sessionKey := r.getSessionKey(params.ID)
	pipe := r.rc.TxPipeline()
	pipe.HSet(ctx, sessionKey, omitnilpointers.StructFields(session, "redis"))
	pipe.Expire(ctx, sessionKey, r.expireDuration)

	if err := r.executePipe(ctx, pipe); err != nil {
		return fmt.Errorf("failed to set session: %w", err)
	}

	return nil
}

func (r repo) GetSession(ctx context.Context, sessionID string) (listener.Session, error) {
	sessionKey := r.getSessionKey(sessionID)
	res := r.rc.HGetAll(ctx, sessionKey)
	if err := res.Err(); err != nil {
		return listener.Session{}, fmt.Errorf("failed to get session: %w", err)
	}

	if len(res.Val()) == 0 {
		return listener.Session{}, listener.ErrSessionNotFound
	}

	var session listener.Session
	if err := res.Scan(&session); err != nil {
		return listener.Session{}, fmt.Errorf("failed to scan session: %w", err)
	}

	r.rc.Expire(ctx, sessionKey, r.expireDuration)

	return session, nil
}

func (r repo) RemoveSession(ctx context.Context, sessionID string) error {
	res, err := r.rc.Del(ctx, r.getSessionKey(sessionID)).Result()
	if err != nil {
		return fmt.Errorf("failed to remove session: %w", err)
	}

	if res == 0 {
		return listener.ErrSessionNotFound
	}

	return nil
}
