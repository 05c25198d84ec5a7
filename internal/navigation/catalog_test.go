package navigation_test

import (
	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/navigation"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Catalog", func() {
	It("should ship a valid default catalog", func() {
		Expect(navigation.Validate(navigation.DefaultCatalog())).To(Succeed())
	})

	It("should hand out independent copies", func() {
		first := navigation.DefaultCatalog()
		first[1].Children[0].Path = "/mutated"
		first[1].RequiredActions[0] = "X"

		second := navigation.DefaultCatalog()
		Expect(second[1].Children[0].Path).To(Equal("/customers/list"))
		Expect(second[1].RequiredActions[0]).To(Equal(access.ActionRead))
	})

	It("should keep /payments and /payment-types apart", func() {
		catalog := navigation.DefaultCatalog()
		Expect(navigation.Owns(catalog, "/payment-types/new")).To(BeTrue())
		Expect(access.MatchPath("/payments", "/payment-types")).To(BeFalse())
	})

	It("should not own public routes", func() {
		catalog := navigation.DefaultCatalog()
		Expect(navigation.Owns(catalog, "/login")).To(BeFalse())
		Expect(navigation.Owns(catalog, "/access-denied")).To(BeFalse())
	})

	Context("with a cashier holding payments read", func() {
		grants := access.GrantSet{
			Roles:      []access.Role{{RoleID: 7, Name: "Cashier", Slug: "cashier"}},
			Privileges: []access.Privilege{{Key: "payments", Actions: []access.Action{access.ActionRead}}},
		}

		It("should land on the dashboard first", func() {
			path, ok := access.FirstPermittedPath(navigation.DefaultCatalog(), grants)
			Expect(ok).To(BeTrue())
			Expect(path).To(Equal("/dashboard"))
		})

		It("should show payment history but not capture", func() {
			tree := access.VisibleTree(navigation.DefaultCatalog(), grants)
			names := make([]string, 0, len(tree))
			for _, n := range tree {
				names = append(names, n.Name)
			}
			Expect(names).To(Equal([]string{"Dashboard", "Payments"}))
			Expect(tree[1].Children).To(HaveLen(1))
			Expect(tree[1].Children[0].Path).To(Equal("/payments/history"))
		})
	})

	It("should require both edit and approve for approvals", func() {
		catalog := navigation.DefaultCatalog()
		editOnly := access.GrantSet{Privileges: []access.Privilege{{Key: "change_requests", Actions: []access.Action{access.ActionEdit}}}}
		tree := access.VisibleTree(catalog, editOnly)

		var changeRequests access.Node
		for _, n := range tree {
			if n.Name == "Change Requests" {
				changeRequests = n
			}
		}
		Expect(changeRequests.Children).To(HaveLen(1))
		Expect(changeRequests.Children[0].Name).To(Equal("Submit Change"))
	})
})

var _ = Describe("Validate", func() {
	DescribeTable("should reject broken catalogs",
		func(catalog []access.Node, fragment string) {
			err := navigation.Validate(catalog)
			Expect(err).To(MatchError(navigation.ErrInvalidCatalog))
			Expect(err.Error()).To(ContainSubstring(fragment))
		},
		Entry("empty catalog", []access.Node{}, "catalog is empty"),
		Entry("missing name", []access.Node{{Path: "/a"}}, "Name"),
		Entry("relative path", []access.Node{{Name: "A", Path: "a"}}, "Path"),
		Entry("actions without a privilege key",
			[]access.Node{{Name: "A", Path: "/a", RequiredActions: []access.Action{"R"}}}, "RequiredPrivilegeKey"),
		Entry("leaf parent without a path", []access.Node{{Name: "A"}}, "needs a path"),
		Entry("child without a path",
			[]access.Node{{Name: "A", Children: []access.Node{{Name: "B"}}}}, "children need a path"),
		Entry("grandchildren",
			[]access.Node{{Name: "A", Children: []access.Node{{Name: "B", Path: "/b", Children: []access.Node{{Name: "C", Path: "/c"}}}}}},
			"children cannot have children"),
		Entry("duplicate paths after normalisation",
			[]access.Node{{Name: "A", Path: "/a"}, {Name: "B", Path: "/a/"}}, "already used"),
	)
})

var _ = Describe("ParseCatalog", func() {
	It("should decode and validate a JSON catalog", func() {
		catalog, err := navigation.ParseCatalog([]byte(`[
			{"name": "Home", "path": "/home"},
			{"name": "Reports", "children": [
				{"name": "Daily", "path": "/reports/daily", "requiredPrivilegeKey": "reports", "requiredActions": ["R"]}
			]}
		]`))
		Expect(err).NotTo(HaveOccurred())
		Expect(catalog).To(HaveLen(2))
		Expect(catalog[1].Children[0].RequiredActions).To(Equal([]access.Action{access.ActionRead}))
	})

	It("should reject malformed JSON", func() {
		_, err := navigation.ParseCatalog([]byte(`{"name":`))
		Expect(err).To(MatchError(navigation.ErrInvalidCatalog))
	})

	It("should reject a structurally broken catalog", func() {
		_, err := navigation.ParseCatalog([]byte(`[{"name": "Group", "children": []}]`))
		Expect(err).To(MatchError(navigation.ErrInvalidCatalog))
	})
})
