package access_test

import (
	"github.com/frahmantamala/navguard/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func grantsWith(privileges ...access.Privilege) access.GrantSet {
	return access.GrantSet{Roles: []access.Role{}, Privileges: privileges}
}

func privilege(key string, actions ...access.Action) access.Privilege {
	return access.Privilege{Key: key, Name: key, Actions: actions}
}

var superAdmin = access.GrantSet{
	Roles:      []access.Role{{RoleID: 1, Name: "Super Admin", Slug: access.SuperAdminSlug}},
	Privileges: []access.Privilege{},
}

var _ = Describe("IsAllowed", func() {
	Context("when the grant set holds a superadmin role", func() {
		DescribeTable("should allow every node",
			func(node access.Node) {
				Expect(access.IsAllowed(node, superAdmin)).To(BeTrue())
			},
			Entry("unrestricted node", access.Node{Name: "Dashboard", Path: "/dashboard"}),
			Entry("privilege key only", access.Node{Name: "Payments", Path: "/payments", RequiredPrivilegeKey: "payments"}),
			Entry("privilege with actions", access.Node{Name: "Tariffs", Path: "/tariffs", RequiredPrivilegeKey: "tariffs", RequiredActions: []access.Action{"W", "A"}}),
			Entry("unknown privilege key", access.Node{Name: "Ghost", Path: "/ghost", RequiredPrivilegeKey: "does-not-exist"}),
		)

		It("should allow even when other roles are ordinary", func() {
			grants := access.GrantSet{Roles: []access.Role{
				{RoleID: 2, Slug: "cashier"},
				{RoleID: 1, Slug: access.SuperAdminSlug},
			}}
			Expect(access.IsAllowed(access.Node{Name: "x", RequiredPrivilegeKey: "billing"}, grants)).To(BeTrue())
		})
	})

	Context("when the node carries no restriction", func() {
		It("should allow an empty grant set", func() {
			Expect(access.IsAllowed(access.Node{Name: "Home", Path: "/"}, grantsWith())).To(BeTrue())
		})
	})

	Context("when the node requires a privilege key", func() {
		node := access.Node{Name: "Payments", Path: "/payments", RequiredPrivilegeKey: "payments"}

		It("should deny when the key is missing", func() {
			Expect(access.IsAllowed(node, grantsWith(privilege("billing", "R")))).To(BeFalse())
		})

		It("should allow mere possession when no actions are required", func() {
			Expect(access.IsAllowed(node, grantsWith(privilege("payments")))).To(BeTrue())
		})
	})

	Context("when the node requires actions", func() {
		node := access.Node{Name: "Payments", Path: "/payments", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{"R", "W"}}

		DescribeTable("should require every action",
			func(actions []access.Action, expected bool) {
				Expect(access.IsAllowed(node, grantsWith(privilege("payments", actions...)))).To(Equal(expected))
			},
			Entry("subset is not enough", []access.Action{"R"}, false),
			Entry("exact set", []access.Action{"R", "W"}, true),
			Entry("superset is fine", []access.Action{"R", "W", "A"}, true),
			Entry("order does not matter", []access.Action{"W", "R"}, true),
			Entry("empty action set", []access.Action{}, false),
		)

		It("should treat action codes as opaque tokens", func() {
			custom := access.Node{Name: "Export", Path: "/export", RequiredPrivilegeKey: "reports", RequiredActions: []access.Action{"EXPORT_CSV"}}
			Expect(access.IsAllowed(custom, grantsWith(privilege("reports", "EXPORT_CSV")))).To(BeTrue())
			Expect(access.IsAllowed(custom, grantsWith(privilege("reports", "R")))).To(BeFalse())
		})
	})
})

var _ = Describe("FilterChildren", func() {
	children := []access.Node{
		{Name: "History", Path: "/payments/history", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{"R"}},
		{Name: "Capture", Path: "/payments/capture", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{"W"}},
		{Name: "Receipts", Path: "/payments/receipts"},
	}

	It("should keep the permitted subsequence in declaration order", func() {
		visible := access.FilterChildren(children, grantsWith(privilege("payments", "R")))
		Expect(visible).To(HaveLen(2))
		Expect(visible[0].Path).To(Equal("/payments/history"))
		Expect(visible[1].Path).To(Equal("/payments/receipts"))
	})

	It("should apply the superadmin bypass to children", func() {
		Expect(access.FilterChildren(children, superAdmin)).To(Equal(children))
	})

	It("should return the same subsequence when filtered twice", func() {
		grants := grantsWith(privilege("payments", "W"))
		first := access.FilterChildren(children, grants)
		second := access.FilterChildren(children, grants)
		Expect(second).To(Equal(first))
		Expect(children[0].Path).To(Equal("/payments/history"))
		Expect(children).To(HaveLen(3))
	})

	It("should return an empty slice for an empty input", func() {
		Expect(access.FilterChildren(nil, superAdmin)).To(BeEmpty())
	})
})

var _ = Describe("Displayable and VisibleTree", func() {
	paymentsParent := access.Node{
		Name:                 "Payments",
		Path:                 "/payments",
		RequiredPrivilegeKey: "payments",
		RequiredActions:      []access.Action{"R"},
		Children: []access.Node{
			{Name: "Capture", Path: "/payments/capture", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{"W"}},
		},
	}
	billingGroup := access.Node{
		Name: "Billing",
		Children: []access.Node{
			{Name: "Runs", Path: "/billing/runs", RequiredPrivilegeKey: "billing", RequiredActions: []access.Action{"R"}},
		},
	}
	reports := access.Node{Name: "Reports", Path: "/reports", RequiredPrivilegeKey: "reports"}

	grants := grantsWith(privilege("payments", "R"))

	It("should keep a permitted parent visible when its children are filtered out", func() {
		Expect(access.Displayable(paymentsParent, grants)).To(BeTrue())
		Expect(access.FilterChildren(paymentsParent.Children, grants)).To(BeEmpty())
	})

	It("should hide a pathless group with no surviving child", func() {
		Expect(access.Displayable(billingGroup, grants)).To(BeFalse())
	})

	It("should show a pathless group once a child survives", func() {
		Expect(access.Displayable(billingGroup, grantsWith(privilege("billing", "R")))).To(BeTrue())
	})

	It("should hide a leaf parent that is not allowed", func() {
		Expect(access.Displayable(reports, grants)).To(BeFalse())
	})

	It("should build the filtered tree without touching the catalog", func() {
		catalog := []access.Node{paymentsParent, billingGroup, reports}
		tree := access.VisibleTree(catalog, grants)

		Expect(tree).To(HaveLen(1))
		Expect(tree[0].Name).To(Equal("Payments"))
		Expect(tree[0].Children).To(BeEmpty())
		Expect(catalog[0].Children).To(HaveLen(1))
	})
})
