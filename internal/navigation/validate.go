package navigation

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/go-playground/validator/v10"
)

var ErrInvalidCatalog = errors.New("invalid navigation catalog")

var validate = validator.New()

// Validate checks a catalog before it is served. Beyond the field rules on
// access.Node it enforces the two-level shape, a path on every child and
// path uniqueness across the whole tree.
func Validate(catalog []access.Node) error {
	if len(catalog) == 0 {
		return fmt.Errorf("%w: catalog is empty", ErrInvalidCatalog)
	}

	var problems []error
	seen := make(map[string]string)

	checkPath := func(where string, node access.Node) {
		if node.Path == "" {
			return
		}
		key := "/" + strings.Join(access.Segments(node.Path), "/")
		if owner, dup := seen[key]; dup {
			problems = append(problems, fmt.Errorf("%s: path %q already used by %q", where, node.Path, owner))
			return
		}
		seen[key] = node.Name
	}

	for i, parent := range catalog {
		where := fmt.Sprintf("catalog[%d] %q", i, parent.Name)
		if err := validate.Struct(parent); err != nil {
			problems = append(problems, fmt.Errorf("%s: %w", where, err))
		}
		if !parent.HasChildren() && parent.Path == "" {
			problems = append(problems, fmt.Errorf("%s: a parent without children needs a path", where))
		}
		checkPath(where, parent)

		for j, child := range parent.Children {
			childWhere := fmt.Sprintf("%s.children[%d] %q", where, j, child.Name)
			if child.HasChildren() {
				problems = append(problems, fmt.Errorf("%s: children cannot have children", childWhere))
			}
			if child.Path == "" {
				problems = append(problems, fmt.Errorf("%s: children need a path", childWhere))
			}
			checkPath(childWhere, child)
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalidCatalog, errors.Join(problems...))
	}
	return nil
}

// ParseCatalog decodes a JSON catalog and validates it.
func ParseCatalog(raw []byte) ([]access.Node, error) {
	var catalog []access.Node
	if err := json.Unmarshal(raw, &catalog); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if err := Validate(catalog); err != nil {
		return nil, err
	}
	return catalog, nil
}

// Owns reports whether path falls under any node of the catalog.
func Owns(catalog []access.Node, path string) bool {
	for _, parent := range catalog {
		if access.MatchPath(parent.Path, path) {
			return true
		}
		for _, child := range parent.Children {
			if access.MatchPath(child.Path, path) {
				return true
			}
		}
	}
	return false
}
