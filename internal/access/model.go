package access

// Action is a single operation granted by a privilege. Values are opaque
// tokens agreed with the server; the evaluator only tests set membership.
type Action string

// Action codes observed in the catalog. They are declared for readability of
// catalog entries and carry no meaning inside the evaluator.
const (
	ActionRead    Action = "R"
	ActionWrite   Action = "W"
	ActionEdit    Action = "E"
	ActionApprove Action = "A"
)

// SuperAdminSlug is the role slug that bypasses every privilege requirement.
const SuperAdminSlug = "superadmin"

type Role struct {
	RoleID   int64  `json:"roleId"`
	Name     string `json:"name"`
	Slug     string `json:"slug" validate:"required"`
	Category string `json:"category"`
}

type Privilege struct {
	Key      string   `json:"key" validate:"required"`
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Actions  []Action `json:"actions" validate:"required,dive,required"`
}

// Grants reports whether the privilege carries the given action.
func (p Privilege) Grants(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// GrantSet is the roles and privileges held by one authenticated session.
// A GrantSet is treated as immutable once built; a permission change produces
// a new GrantSet rather than editing this one.
type GrantSet struct {
	Roles      []Role      `json:"roles" validate:"required,dive"`
	Privileges []Privilege `json:"privileges" validate:"required,dive"`
}

func (g GrantSet) IsSuperAdmin() bool {
	for _, r := range g.Roles {
		if r.Slug == SuperAdminSlug {
			return true
		}
	}
	return false
}

// Lookup returns the first privilege with the given key.
func (g GrantSet) Lookup(key string) (Privilege, bool) {
	for _, p := range g.Privileges {
		if p.Key == key {
			return p, true
		}
	}
	return Privilege{}, false
}

// Node is an entry of the navigation catalog. Top-level nodes are parents;
// entries of Children are leaves and never carry children of their own.
type Node struct {
	Name                 string   `json:"name" validate:"required"`
	Path                 string   `json:"path,omitempty" validate:"omitempty,startswith=/"`
	RequiredPrivilegeKey string   `json:"requiredPrivilegeKey,omitempty" validate:"required_with=RequiredActions"`
	RequiredActions      []Action `json:"requiredActions,omitempty" validate:"omitempty,dive,required"`
	Children             []Node   `json:"children,omitempty" validate:"omitempty,dive"`
}

func (n Node) HasChildren() bool {
	return len(n.Children) > 0
}
