package navigation

import "github.com/frahmantamala/navguard/internal/access"

// defaultCatalog is the menu of the utility billing back office. Declaration
// order is significant: it decides which page a user lands on first.
var defaultCatalog = []access.Node{
	{
		Name: "Dashboard",
		Path: "/dashboard",
	},
	{
		Name:                 "Customers",
		Path:                 "/customers",
		RequiredPrivilegeKey: "customers",
		RequiredActions:      []access.Action{access.ActionRead},
		Children: []access.Node{
			{Name: "Customer List", Path: "/customers/list", RequiredPrivilegeKey: "customers", RequiredActions: []access.Action{access.ActionRead}},
			{Name: "New Customer", Path: "/customers/new", RequiredPrivilegeKey: "customers", RequiredActions: []access.Action{access.ActionWrite}},
		},
	},
	{
		Name: "Billing",
		Children: []access.Node{
			{Name: "Billing Runs", Path: "/billing/runs", RequiredPrivilegeKey: "billing", RequiredActions: []access.Action{access.ActionRead}},
			{Name: "Tariffs", Path: "/billing/tariffs", RequiredPrivilegeKey: "tariffs", RequiredActions: []access.Action{access.ActionRead}},
		},
	},
	{
		Name:                 "Payments",
		Path:                 "/payments",
		RequiredPrivilegeKey: "payments",
		RequiredActions:      []access.Action{access.ActionRead},
		Children: []access.Node{
			{Name: "Payment History", Path: "/payments/history", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{access.ActionRead}},
			{Name: "Capture Payment", Path: "/payments/capture", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{access.ActionWrite}},
		},
	},
	{
		Name:                 "Payment Types",
		Path:                 "/payment-types",
		RequiredPrivilegeKey: "payment_types",
		RequiredActions:      []access.Action{access.ActionRead},
	},
	{
		Name: "Change Requests",
		Children: []access.Node{
			{Name: "Submit Change", Path: "/change-requests/new", RequiredPrivilegeKey: "change_requests", RequiredActions: []access.Action{access.ActionEdit}},
			{Name: "Approvals", Path: "/change-requests/approvals", RequiredPrivilegeKey: "change_requests", RequiredActions: []access.Action{access.ActionEdit, access.ActionApprove}},
		},
	},
	{
		Name:                 "Meters",
		Path:                 "/meters",
		RequiredPrivilegeKey: "meters",
		Children: []access.Node{
			{Name: "Meter Inventory", Path: "/meters/inventory", RequiredPrivilegeKey: "meters", RequiredActions: []access.Action{access.ActionRead}},
			{Name: "Activation", Path: "/meters/activation", RequiredPrivilegeKey: "meters", RequiredActions: []access.Action{access.ActionWrite, access.ActionApprove}},
		},
	},
	{
		Name:                 "Administration",
		Path:                 "/admin",
		RequiredPrivilegeKey: "admin",
		RequiredActions:      []access.Action{access.ActionRead, access.ActionWrite},
		Children: []access.Node{
			{Name: "Roles", Path: "/admin/roles", RequiredPrivilegeKey: "admin", RequiredActions: []access.Action{access.ActionRead, access.ActionWrite}},
			{Name: "Audit Log", Path: "/admin/audit", RequiredPrivilegeKey: "audit"},
		},
	},
}

// DefaultCatalog returns a copy of the built-in catalog. Callers may keep
// the result; the package-level declaration is never handed out.
func DefaultCatalog() []access.Node {
	return Clone(defaultCatalog)
}

// Clone deep-copies a catalog.
func Clone(catalog []access.Node) []access.Node {
	if catalog == nil {
		return nil
	}
	out := make([]access.Node, len(catalog))
	for i, node := range catalog {
		out[i] = node
		if node.RequiredActions != nil {
			out[i].RequiredActions = append([]access.Action(nil), node.RequiredActions...)
		}
		if node.Children != nil {
			out[i].Children = Clone(node.Children)
		}
	}
	return out
}
