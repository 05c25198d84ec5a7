package access

// FirstPermittedPath walks the catalog in declaration order and returns the
// first path grants may reach. The result depends only on catalog order and
// grants, never on the current location.
func FirstPermittedPath(catalog []Node, grants GrantSet) (string, bool) {
	for _, parent := range catalog {
		if !IsAllowed(parent, grants) {
			continue
		}

		if !parent.HasChildren() {
			if parent.Path != "" {
				return parent.Path, true
			}
			continue
		}

		for _, child := range FilterChildren(parent.Children, grants) {
			if child.Path != "" {
				return child.Path, true
			}
		}
		// every child filtered out: the parent's own page is still a landing spot
		if parent.Path != "" {
			return parent.Path, true
		}
	}
	return "", false
}
