package guard

import (
	"context"

	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Guard pending redirects", func() {
	var (
		calls  int
		g      *Guard
		holder *session.Holder
		ctx    context.Context
	)

	catalog := []access.Node{
		{Name: "Reports", Path: "/reports", RequiredPrivilegeKey: "reports"},
		{Name: "Help", Path: "/help"},
	}

	BeforeEach(func() {
		calls = 0
		holder = session.NewHolder()
		ctx = context.Background()
		g = New(Config{
			Catalog: catalog,
			Navigator: NavigatorFunc(func(context.Context, string) error {
				calls++
				return nil
			}),
		})
		_, err := g.SetGrants(ctx, holder.Replace(access.GrantSet{}))
		Expect(err).NotTo(HaveOccurred())
	})

	It("should discard a redirect when grants are invalidated mid-flight", func() {
		g.beforeApply = g.Invalidate

		decision, err := g.Navigate(ctx, "/reports")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Discarded).To(BeTrue())
		Expect(decision.Kind).To(Equal(KindNone))
		Expect(calls).To(BeZero())
	})

	It("should discard a redirect when grants are replaced mid-flight", func() {
		g.beforeApply = func() {
			g.beforeApply = nil
			_, err := g.SetGrants(ctx, holder.Replace(access.GrantSet{
				Privileges: []access.Privilege{{Key: "reports"}},
			}))
			Expect(err).NotTo(HaveOccurred())
		}

		decision, err := g.Navigate(ctx, "/reports")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Discarded).To(BeTrue())
		Expect(calls).To(BeZero())
	})

	It("should apply the redirect when nothing changed", func() {
		applied := false
		g.beforeApply = func() { applied = true }

		decision, err := g.Navigate(ctx, "/reports")
		Expect(err).NotTo(HaveOccurred())
		Expect(applied).To(BeTrue())
		Expect(decision.Kind).To(Equal(KindRedirect))
		Expect(decision.Target).To(Equal("/help"))
		Expect(calls).To(Equal(1))
		Expect(g.path).To(Equal("/help"))
		Expect(g.state.Path).To(Equal("/help"))
	})

	It("should keep a location reported while the redirect was applied", func() {
		g.beforeApply = func() {
			g.beforeApply = nil
			_, err := g.Navigate(ctx, "/help/faq")
			Expect(err).NotTo(HaveOccurred())
		}

		decision, err := g.Navigate(ctx, "/reports")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(KindRedirect))
		Expect(g.path).To(Equal("/help/faq"))
		Expect(g.state.Path).To(Equal("/help/faq"))
	})
})
