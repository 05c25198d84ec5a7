package access_test

import (
	"github.com/frahmantamala/navguard/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("FirstPermittedPath", func() {
	It("should respect declaration order", func() {
		catalog := []access.Node{
			{Name: "P1", Path: "/p1"},
			{Name: "P2", Path: "/p2", Children: []access.Node{{Name: "C", Path: "/p2/c"}}},
		}
		path, ok := access.FirstPermittedPath(catalog, grantsWith())
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal("/p1"))
	})

	It("should return the first surviving child of the first permitted parent", func() {
		catalog := []access.Node{
			{Name: "Customers", Children: []access.Node{
				{Name: "List", Path: "/customers", RequiredPrivilegeKey: "customers", RequiredActions: []access.Action{"W"}},
				{Name: "Accounts", Path: "/customers/accounts", RequiredPrivilegeKey: "customers", RequiredActions: []access.Action{"R"}},
			}},
		}
		path, ok := access.FirstPermittedPath(catalog, grantsWith(privilege("customers", "R")))
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal("/customers/accounts"))
	})

	It("should fall through a pathless parent whose children are all filtered", func() {
		catalog := []access.Node{
			{Name: "Billing", Children: []access.Node{
				{Name: "Runs", Path: "/billing/runs", RequiredPrivilegeKey: "billing"},
			}},
			{Name: "Help", Path: "/help"},
		}
		path, ok := access.FirstPermittedPath(catalog, grantsWith())
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal("/help"))
	})

	It("should land on the parent's own path when its children are all filtered", func() {
		catalog := []access.Node{
			{
				Name: "Payments", Path: "/payments",
				RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{"R"},
				Children: []access.Node{
					{Name: "Capture", Path: "/payments/capture", RequiredPrivilegeKey: "payments", RequiredActions: []access.Action{"W"}},
				},
			},
		}
		path, ok := access.FirstPermittedPath(catalog, grantsWith(privilege("payments", "R")))
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal("/payments"))
	})

	It("should skip parents that are not allowed even if a child would be", func() {
		catalog := []access.Node{
			{Name: "Admin", Path: "/admin", RequiredPrivilegeKey: "admin", Children: []access.Node{
				{Name: "Open", Path: "/admin/open"},
			}},
			{Name: "Profile", Path: "/profile"},
		}
		path, ok := access.FirstPermittedPath(catalog, grantsWith())
		Expect(ok).To(BeTrue())
		Expect(path).To(Equal("/profile"))
	})

	It("should report none when nothing is reachable", func() {
		catalog := []access.Node{
			{Name: "Payments", Path: "/payments", RequiredPrivilegeKey: "payments"},
		}
		path, ok := access.FirstPermittedPath(catalog, grantsWith())
		Expect(ok).To(BeFalse())
		Expect(path).To(BeEmpty())
	})

	It("should be deterministic", func() {
		catalog := []access.Node{
			{Name: "A", Path: "/a", RequiredPrivilegeKey: "a"},
			{Name: "B", Children: []access.Node{{Name: "B1", Path: "/b/1", RequiredPrivilegeKey: "b"}}},
		}
		grants := grantsWith(privilege("b", "R"))
		first, ok1 := access.FirstPermittedPath(catalog, grants)
		second, ok2 := access.FirstPermittedPath(catalog, grants)
		Expect(ok1).To(Equal(ok2))
		Expect(first).To(Equal(second))
		Expect(first).To(Equal("/b/1"))
	})
})
