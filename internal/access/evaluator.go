package access

// IsAllowed decides whether grants may use node. It is the single check used
// for parents, children and catalog scans alike.
func IsAllowed(node Node, grants GrantSet) bool {
	if grants.IsSuperAdmin() {
		return true
	}
	if node.RequiredPrivilegeKey == "" {
		return true
	}

	privilege, ok := grants.Lookup(node.RequiredPrivilegeKey)
	if !ok {
		return false
	}
	if len(node.RequiredActions) == 0 {
		return true
	}

	// all-of: a partial grant never satisfies a multi-action requirement
	for _, action := range node.RequiredActions {
		if !privilege.Grants(action) {
			return false
		}
	}
	return true
}

// FilterChildren returns the children grants may use, in declaration order.
// The input slice is never modified.
func FilterChildren(children []Node, grants GrantSet) []Node {
	visible := make([]Node, 0, len(children))
	for _, child := range children {
		if IsAllowed(child, grants) {
			visible = append(visible, child)
		}
	}
	return visible
}

// Displayable reports whether a parent node should appear in the menu.
//
// A leaf parent is displayable when it is allowed. A parent with children is
// displayable when at least one child survives filtering, or when every child
// was filtered out but the parent is itself allowed and has a path to land on.
func Displayable(parent Node, grants GrantSet) bool {
	if !parent.HasChildren() {
		return IsAllowed(parent, grants)
	}
	if len(FilterChildren(parent.Children, grants)) > 0 {
		return true
	}
	return parent.Path != "" && IsAllowed(parent, grants)
}

// VisibleTree is the catalog as the menu renderer should draw it: displayable
// parents in declaration order, each carrying only its permitted children.
func VisibleTree(catalog []Node, grants GrantSet) []Node {
	tree := make([]Node, 0, len(catalog))
	for _, parent := range catalog {
		if !Displayable(parent, grants) {
			continue
		}
		visible := parent
		visible.RequiredActions = append([]Action(nil), parent.RequiredActions...)
		visible.Children = nil
		if parent.HasChildren() {
			visible.Children = FilterChildren(parent.Children, grants)
		}
		tree = append(tree, visible)
	}
	return tree
}
