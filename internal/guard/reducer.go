package guard

import (
	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/session"
)

// State is what the reducer remembers between inputs.
type State struct {
	Path    string
	Version uint64
	Loaded  bool

	applied bool
	matched bool
	allowed bool
}

// Input is one change of the guard's two external inputs.
type Input struct {
	Path     string
	Snapshot session.Snapshot
}

// Reduce runs the transition rule for in unless it repeats the last input,
// in which case the previous state is kept and the decision is Repeated. A
// repeated decision still reports whether the path matched and was allowed.
func Reduce(prev State, in Input, catalog []access.Node, opts Options) (State, Decision) {
	next := State{
		Path:    in.Path,
		Version: in.Snapshot.Version,
		Loaded:  in.Snapshot.Loaded(),
		applied: true,
	}
	if prev.applied &&
		prev.Version == next.Version &&
		prev.Loaded == next.Loaded &&
		access.SamePath(prev.Path, next.Path) {
		return prev, Decision{Matched: prev.matched, Allowed: prev.allowed, Repeated: true}
	}
	decision := Evaluate(catalog, in.Path, in.Snapshot.Grants, opts)
	next.matched, next.allowed = decision.Matched, decision.Allowed
	return next, decision
}
