package session

import (
	"context"
	"net/http"

	"github.com/frahmantamala/navguard/internal"
)

type ctxKey string

const snapshotKey ctxKey = "grantSnapshot"

func WithSnapshot(ctx context.Context, snap Snapshot) context.Context {
	return context.WithValue(ctx, snapshotKey, snap)
}

// FromContext returns the request's snapshot, or an unloaded one.
func FromContext(ctx context.Context) Snapshot {
	if snap, ok := ctx.Value(snapshotKey).(Snapshot); ok {
		return snap
	}
	return Snapshot{}
}

// Middleware loads the grant set of the authenticated session into the
// request context. It must run after the session id has been resolved.
func (l *Loader) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sessionID := internal.SessionIDFromContext(r.Context())
		snap := l.Load(r.Context(), sessionID)
		next.ServeHTTP(w, r.WithContext(WithSnapshot(r.Context(), snap)))
	})
}
