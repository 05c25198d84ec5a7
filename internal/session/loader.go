package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/frahmantamala/navguard/internal"
	"golang.org/x/sync/singleflight"
)

// Loader turns persisted grant sets into snapshots. It never fails: absent or
// malformed data yields an unloaded snapshot so callers stay inert.
//
// Snapshots returned by Loader are unversioned (Version 0); a Holder assigns
// versions when a snapshot is published to a long-lived consumer.
type Loader struct {
	provider Provider
	logger   *slog.Logger
	group    singleflight.Group
	// Timeout bounds one store lookup; zero means five seconds.
	Timeout time.Duration
}

func NewLoader(provider Provider, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{provider: provider, logger: logger}
}

func (l *Loader) Load(ctx context.Context, sessionID string) Snapshot {
	if sessionID == "" {
		return Snapshot{}
	}

	// The lookup is shared with every caller waiting on the same session, so
	// it must not end when the first caller's request does.
	v, _, _ := l.group.Do(sessionID, func() (interface{}, error) {
		return l.load(context.WithoutCancel(ctx), sessionID), nil
	})
	return v.(Snapshot)
}

func (l *Loader) load(ctx context.Context, sessionID string) Snapshot {
	ctx, cancel := internal.WithTimeout(ctx, l.Timeout)
	defer cancel()

	raw, err := l.provider.Load(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			l.logger.DebugContext(ctx, "no grant set stored", "session_id", sessionID)
		} else {
			l.logger.ErrorContext(ctx, "failed to read grant set", "session_id", sessionID, "error", err)
		}
		return Snapshot{}
	}

	grants, err := Decode(raw)
	if err != nil {
		l.logger.WarnContext(ctx, "ignoring malformed grant set", "session_id", sessionID, "error", err)
		return Snapshot{}
	}
	return Snapshot{Grants: &grants}
}
