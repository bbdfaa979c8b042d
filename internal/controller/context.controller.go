package controller

import "context"

type contextKey int

const (
	sessionIdCtxKey contextKey = iota
)

func (c controller) getSessionIdFromCtx(ctx context.Context) string {
	sessionId, ok := ctx.Value(sessionIdCtxKey).(string)
	if !ok {
		return ""
	}

	return sessionId
}
