package guard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/core/events"
	"github.com/frahmantamala/navguard/internal/session"
)

// Navigator is the hosting router's navigation API.
type Navigator interface {
	Redirect(ctx context.Context, target string) error
}

type NavigatorFunc func(ctx context.Context, target string) error

func (f NavigatorFunc) Redirect(ctx context.Context, target string) error {
	return f(ctx, target)
}

// Passive accepts every redirect without acting on it. The caller reads the
// target from the returned Decision instead.
var Passive Navigator = NavigatorFunc(func(context.Context, string) error { return nil })

type Config struct {
	Catalog   []access.Node
	Navigator Navigator
	Options   Options
	Logger    *slog.Logger
	Bus       *events.EventBus
	SessionID string
}

// Guard is the stateful route guard of one session. It is safe for
// concurrent use; transitions are serialised and redirects are applied
// outside the lock.
type Guard struct {
	catalog   []access.Node
	navigator Navigator
	opts      Options
	logger    *slog.Logger
	bus       *events.EventBus
	sessionID string

	mu    sync.Mutex
	state State
	path  string
	snap  session.Snapshot
	epoch uint64

	// beforeApply runs between computing a redirect and applying it.
	beforeApply func()
}

func New(cfg Config) *Guard {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Navigator == nil {
		cfg.Navigator = Passive
	}
	return &Guard{
		catalog:   cfg.Catalog,
		navigator: cfg.Navigator,
		opts:      cfg.Options.withDefaults(),
		logger:    cfg.Logger.With("session_id", cfg.SessionID),
		bus:       cfg.Bus,
		sessionID: cfg.SessionID,
	}
}

// Navigate reports a location change.
func (g *Guard) Navigate(ctx context.Context, path string) (Decision, error) {
	g.mu.Lock()
	g.path = path
	decision, epoch := g.stepLocked()
	g.mu.Unlock()

	return g.apply(ctx, path, decision, epoch)
}

// SetGrants publishes a new grant set snapshot. Snapshots older than the one
// already held are ignored.
func (g *Guard) SetGrants(ctx context.Context, snap session.Snapshot) (Decision, error) {
	g.mu.Lock()
	if snap.Version < g.snap.Version {
		g.mu.Unlock()
		g.logger.DebugContext(ctx, "ignoring stale grant snapshot", "version", snap.Version)
		return Decision{Repeated: true}, nil
	}
	if snap.Version != g.snap.Version || snap.Loaded() != g.snap.Loaded() {
		g.epoch++
	}
	g.snap = snap
	path := g.path
	decision, epoch := g.stepLocked()
	g.mu.Unlock()

	return g.apply(ctx, path, decision, epoch)
}

// Invalidate drops the grant set. Any redirect computed before the call and
// not yet applied is discarded.
func (g *Guard) Invalidate() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.epoch++
	g.snap = session.Snapshot{Version: g.snap.Version}
	g.state = State{}
}

// Snapshot returns the grant snapshot the guard currently evaluates against.
func (g *Guard) Snapshot() session.Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

func (g *Guard) stepLocked() (Decision, uint64) {
	if g.path == "" {
		return Decision{}, g.epoch
	}
	var decision Decision
	g.state, decision = Reduce(g.state, Input{Path: g.path, Snapshot: g.snap}, g.catalog, g.opts)
	return decision, g.epoch
}

func (g *Guard) apply(ctx context.Context, from string, decision Decision, epoch uint64) (Decision, error) {
	if !decision.Redirects() {
		return decision, nil
	}
	if g.beforeApply != nil {
		g.beforeApply()
	}

	if err := ctx.Err(); err != nil {
		g.rearm(epoch)
		return Decision{Discarded: true}, err
	}
	if !g.current(epoch) {
		g.logger.InfoContext(ctx, "discarding redirect computed from replaced grants",
			"from", from, "target", decision.Target)
		return Decision{Discarded: true}, nil
	}

	if err := g.navigator.Redirect(ctx, decision.Target); err != nil {
		g.rearm(epoch)
		return decision, fmt.Errorf("redirect to %s: %w", decision.Target, err)
	}
	g.settle(from, decision.Target, epoch)

	if decision.Kind == KindDenied {
		g.logger.WarnContext(ctx, "no permitted page, showing access denied",
			"from", from, "target", decision.Target)
	} else {
		g.logger.InfoContext(ctx, "redirecting away from forbidden page",
			"from", from, "target", decision.Target)
	}

	if g.bus != nil {
		event := events.NewGuardRedirectedEvent(g.sessionID, from, decision.Target, decision.Kind == KindDenied)
		if err := g.bus.Publish(context.WithoutCancel(ctx), event); err != nil {
			g.logger.ErrorContext(ctx, "failed to publish guard event", "error", err)
		}
	}
	return decision, nil
}

func (g *Guard) current(epoch uint64) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.epoch == epoch
}

// settle moves the guard onto the redirect target, so the next report of the
// forbidden path is a new input rather than a repeat.
func (g *Guard) settle(from, target string, epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.epoch != epoch || !access.SamePath(g.path, from) {
		return
	}
	g.path = target
	g.state, _ = Reduce(State{}, Input{Path: target, Snapshot: g.snap}, g.catalog, g.opts)
}

// rearm forgets the last input so the same input is evaluated again after a
// redirect that was not applied.
func (g *Guard) rearm(epoch uint64) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.epoch == epoch {
		g.state = State{}
	}
}
