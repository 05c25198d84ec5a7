package guard

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/core/events"
	"github.com/frahmantamala/navguard/internal/session"
)

type RegistryConfig struct {
	Catalog   []access.Node
	Navigator Navigator
	Options   Options
	Logger    *slog.Logger
	Bus       *events.EventBus
	// IdleTTL evicts guards of sessions not seen for that long. Zero keeps
	// them until logout.
	IdleTTL time.Duration
}

type entry struct {
	// mu orders snapshot publication for the session.
	mu       sync.Mutex
	holder   *session.Holder
	guard    *Guard
	lastSeen atomic.Int64
}

// Registry keeps one guard per session and keeps each guard's grant
// snapshot in step with session events.
type Registry struct {
	cfg       RegistryConfig
	logger    *slog.Logger
	mu        sync.RWMutex
	sessions  map[string]*entry
	lastSweep atomic.Int64
}

func NewRegistry(cfg RegistryConfig) *Registry {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	r := &Registry{
		cfg:      cfg,
		logger:   cfg.Logger,
		sessions: make(map[string]*entry),
	}
	if cfg.Bus != nil {
		cfg.Bus.Subscribe(events.EventTypeGrantsReplaced, r.onGrantsReplaced)
		cfg.Bus.Subscribe(events.EventTypeGrantsInvalidated, r.onGrantsInvalidated)
	}
	return r
}

// Guard returns the session's guard, creating it on first use. seed is the
// grant set stored for the session when the request was read; a guard holding
// different grants is brought in step with it before it is returned.
func (r *Registry) Guard(ctx context.Context, sessionID string, seed session.Snapshot) *Guard {
	now := time.Now()
	e := r.entryFor(sessionID, now)
	e.lastSeen.Store(now.UnixNano())
	r.sweepIfDue(ctx, now)

	r.sync(ctx, e, seed)
	return e.guard
}

func (r *Registry) entryFor(sessionID string, now time.Time) *entry {
	r.mu.RLock()
	e, ok := r.sessions[sessionID]
	r.mu.RUnlock()
	if ok {
		return e
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if e, ok = r.sessions[sessionID]; ok {
		return e
	}
	e = &entry{
		holder: session.NewHolder(),
		guard: New(Config{
			Catalog:   r.cfg.Catalog,
			Navigator: r.cfg.Navigator,
			Options:   r.cfg.Options,
			Logger:    r.logger,
			Bus:       r.cfg.Bus,
			SessionID: sessionID,
		}),
	}
	e.lastSeen.Store(now.UnixNano())
	r.sessions[sessionID] = e
	return e
}

func (r *Registry) sync(ctx context.Context, e *entry, seed session.Snapshot) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.holder.Current().SameGrants(seed) {
		return
	}
	if seed.Loaded() {
		r.publish(ctx, e, e.holder.Replace(*seed.Grants))
		return
	}
	r.publish(ctx, e, e.holder.Invalidate())
	r.logger.DebugContext(ctx, "guard grants dropped, none stored for session")
}

// Sweep evicts the guards of sessions idle for longer than IdleTTL at now and
// returns how many were evicted.
func (r *Registry) Sweep(now time.Time) int {
	if r.cfg.IdleTTL <= 0 {
		return 0
	}
	cutoff := now.Add(-r.cfg.IdleTTL).UnixNano()

	r.mu.Lock()
	defer r.mu.Unlock()
	evicted := 0
	for id, e := range r.sessions {
		if e.lastSeen.Load() < cutoff {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

func (r *Registry) sweepIfDue(ctx context.Context, now time.Time) {
	if r.cfg.IdleTTL <= 0 {
		return
	}
	last := r.lastSweep.Load()
	if now.UnixNano()-last < int64(r.cfg.IdleTTL) || !r.lastSweep.CompareAndSwap(last, now.UnixNano()) {
		return
	}
	if evicted := r.Sweep(now); evicted > 0 {
		r.logger.DebugContext(ctx, "evicted idle guards", "count", evicted)
	}
}

// Forget drops the session's guard.
func (r *Registry) Forget(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, sessionID)
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) lookup(sessionID string) (*entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.sessions[sessionID]
	return e, ok
}

func (r *Registry) publish(ctx context.Context, e *entry, snap session.Snapshot) {
	if _, err := e.guard.SetGrants(ctx, snap); err != nil {
		r.logger.WarnContext(ctx, "guard could not apply new grants", "version", snap.Version, "error", err)
	}
}

func (r *Registry) onGrantsReplaced(ctx context.Context, event events.Event) error {
	replaced, ok := event.(*events.GrantsReplacedEvent)
	if !ok {
		return nil
	}
	e, ok := r.lookup(replaced.SessionID)
	if !ok {
		return nil
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	r.publish(ctx, e, e.holder.Replace(replaced.Grants))
	return nil
}

func (r *Registry) onGrantsInvalidated(ctx context.Context, event events.Event) error {
	invalidated, ok := event.(*events.GrantsInvalidatedEvent)
	if !ok {
		return nil
	}
	e, ok := r.lookup(invalidated.SessionID)
	if !ok {
		return nil
	}
	e.mu.Lock()
	e.holder.Invalidate()
	e.guard.Invalidate()
	e.mu.Unlock()
	r.Forget(invalidated.SessionID)
	r.logger.DebugContext(ctx, "guard dropped after logout", "session_id", invalidated.SessionID)
	return nil
}
