package internal

import (
	"context"
	"time"
)

type ctxKey string

const (
	ContextSessionKey ctxKey = "sessionID"
	ContextScopesKey  ctxKey = "scopes"
)

func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if sessionID, ok := ctx.Value(ContextSessionKey).(string); ok {
		return sessionID
	}
	return ""
}

func ContextWithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, ContextSessionKey, sessionID)
}

func ContextWithScopes(ctx context.Context, scopes []string) context.Context {
	return context.WithValue(ctx, ContextScopesKey, scopes)
}

// ScopesFromContext returns the scopes granted to the request's token.
func ScopesFromContext(ctx context.Context) []string {
	if ctx == nil {
		return nil
	}
	scopes, _ := ctx.Value(ContextScopesKey).([]string)
	return scopes
}

// WithTimeout returns a context with timeout, defaulting to 5 seconds if duration is zero or negative.
func WithTimeout(ctx context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if duration <= 0 {
		duration = 5 * time.Second
	}
	return context.WithTimeout(ctx, duration)
}
