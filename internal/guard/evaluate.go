package guard

import (
	"github.com/frahmantamala/navguard/internal/access"
)

// Evaluate applies the guard's transition rule to one (path, grants) pair.
// It is pure: a nil grants pointer means nothing is loaded yet and the guard
// stays inert.
func Evaluate(catalog []access.Node, path string, grants *access.GrantSet, opts Options) Decision {
	if grants == nil {
		return Decision{}
	}
	opts = opts.withDefaults()

	matched, allowed := scan(catalog, path, *grants, opts.Policy)
	decision := Decision{Matched: matched, Allowed: allowed}
	if !matched || allowed {
		return decision
	}

	target, ok := access.FirstPermittedPath(catalog, *grants)
	if !ok {
		if access.SamePath(path, opts.AccessDeniedPath) {
			return decision
		}
		decision.Kind = KindDenied
		decision.Target = opts.AccessDeniedPath
		return decision
	}
	if access.SamePath(target, path) {
		return decision
	}

	decision.Kind = KindRedirect
	decision.Target = target
	return decision
}

// scan walks every parent and child of the catalog without stopping early.
func scan(catalog []access.Node, path string, grants access.GrantSet, policy MatchPolicy) (matched, allowed bool) {
	depth := -1
	visit := func(node access.Node) {
		if !access.MatchPath(node.Path, path) {
			return
		}
		ok := access.IsAllowed(node, grants)
		matched = true

		if policy != PolicyMostSpecific {
			allowed = allowed || ok
			return
		}
		switch d := len(access.Segments(node.Path)); {
		case d > depth:
			depth = d
			allowed = ok
		case d == depth:
			allowed = allowed || ok
		}
	}

	for _, parent := range catalog {
		visit(parent)
		for _, child := range parent.Children {
			visit(child)
		}
	}
	return matched, allowed
}
