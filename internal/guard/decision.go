package guard

import (
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/navguard/internal/access"
)

// DefaultAccessDeniedPath is where a user is sent when no catalog page is
// reachable with their grants. It must lie outside the catalog.
const DefaultAccessDeniedPath = "/access-denied"

type Kind int

const (
	KindNone Kind = iota
	KindRedirect
	KindDenied
)

var kindNames = map[Kind]string{
	KindNone:     "none",
	KindRedirect: "redirect",
	KindDenied:   "denied",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

func (k Kind) MarshalText() ([]byte, error) {
	name, ok := kindNames[k]
	if !ok {
		return nil, fmt.Errorf("unknown decision kind %d", int(k))
	}
	return []byte(name), nil
}

func (k *Kind) UnmarshalText(text []byte) error {
	for kind, name := range kindNames {
		if name == string(text) {
			*k = kind
			return nil
		}
	}
	return fmt.Errorf("unknown decision kind %q", text)
}

// MatchPolicy decides how several catalog nodes matching one path combine.
type MatchPolicy string

const (
	// PolicyAnyMatch allows the path when any matching node is allowed.
	PolicyAnyMatch MatchPolicy = "any"
	// PolicyMostSpecific lets the deepest matching nodes decide.
	PolicyMostSpecific MatchPolicy = "most_specific"
)

var ErrUnknownPolicy = errors.New("unknown match policy")

func ParsePolicy(s string) (MatchPolicy, error) {
	switch MatchPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyAnyMatch:
		return PolicyAnyMatch, nil
	case PolicyMostSpecific:
		return PolicyMostSpecific, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPolicy, s)
}

type Options struct {
	AccessDeniedPath string
	Policy           MatchPolicy
}

func (o Options) withDefaults() Options {
	if o.AccessDeniedPath == "" {
		o.AccessDeniedPath = DefaultAccessDeniedPath
	}
	if o.Policy == "" {
		o.Policy = PolicyAnyMatch
	}
	return o
}

// Validate checks the options against the catalog they will guard. An
// access-denied route inside the catalog could be guarded itself and loop.
func (o Options) Validate(catalog []access.Node) error {
	o = o.withDefaults()
	if _, err := ParsePolicy(string(o.Policy)); err != nil {
		return err
	}
	if !strings.HasPrefix(o.AccessDeniedPath, "/") {
		return fmt.Errorf("access denied path %q must start with /", o.AccessDeniedPath)
	}
	for _, parent := range catalog {
		if access.MatchPath(parent.Path, o.AccessDeniedPath) {
			return fmt.Errorf("access denied path %q is inside catalog entry %q", o.AccessDeniedPath, parent.Name)
		}
		for _, child := range parent.Children {
			if access.MatchPath(child.Path, o.AccessDeniedPath) {
				return fmt.Errorf("access denied path %q is inside catalog entry %q", o.AccessDeniedPath, child.Name)
			}
		}
	}
	return nil
}

// Decision is the outcome of one guard transition.
type Decision struct {
	Kind    Kind   `json:"kind"`
	Target  string `json:"target,omitempty"`
	Matched bool   `json:"matched"`
	Allowed bool   `json:"allowed"`
	// Repeated is set when the input was identical to the last one and
	// nothing was evaluated.
	Repeated bool `json:"repeated,omitempty"`
	// Discarded is set when a redirect was computed from grants that were
	// replaced or dropped before it could be applied.
	Discarded bool `json:"discarded,omitempty"`
}

func (d Decision) Redirects() bool {
	return d.Kind != KindNone
}
