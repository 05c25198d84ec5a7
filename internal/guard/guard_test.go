package guard_test

import (
	"context"
	"errors"
	"sync"

	"github.com/frahmantamala/navguard/internal/core/events"
	"github.com/frahmantamala/navguard/internal/guard"
	"github.com/frahmantamala/navguard/internal/session"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type recordingNavigator struct {
	mu      sync.Mutex
	targets []string
	err     error
}

func (n *recordingNavigator) Redirect(ctx context.Context, target string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.targets = append(n.targets, target)
	return nil
}

func (n *recordingNavigator) Targets() []string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]string(nil), n.targets...)
}

var _ = Describe("Guard", func() {
	var (
		navigator *recordingNavigator
		holder    *session.Holder
		g         *guard.Guard
		ctx       context.Context
	)

	BeforeEach(func() {
		navigator = &recordingNavigator{}
		holder = session.NewHolder()
		g = guard.New(guard.Config{
			Catalog:   testCatalog(),
			Navigator: navigator,
			SessionID: "s-1",
		})
		ctx = context.Background()
	})

	It("should stay inert before grants arrive", func() {
		decision, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindNone))
		Expect(navigator.Targets()).To(BeEmpty())
	})

	It("should redirect when grants load on a forbidden page", func() {
		_, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())

		decision, err := g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindRedirect))
		Expect(navigator.Targets()).To(Equal([]string{"/payment/history"}))
	})

	It("should issue one redirect for a repeated grant snapshot", func() {
		_, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())

		snap := holder.Replace(*grants(privilege("payments", "R")))
		first, err := g.SetGrants(ctx, snap)
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Kind).To(Equal(guard.KindRedirect))

		second, err := g.SetGrants(ctx, snap)
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Repeated).To(BeTrue())
		Expect(navigator.Targets()).To(HaveLen(1))
	})

	It("should redirect again when the forbidden page is visited again", func() {
		_, err := g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		Expect(err).NotTo(HaveOccurred())

		first, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(first.Kind).To(Equal(guard.KindRedirect))

		second, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(second.Kind).To(Equal(guard.KindRedirect))
		Expect(second.Repeated).To(BeFalse())
		Expect(navigator.Targets()).To(Equal([]string{"/payment/history", "/payment/history"}))
	})

	It("should report a repeated visit to a permitted page as allowed", func() {
		_, _ = g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		_, err := g.Navigate(ctx, "/payment/history")
		Expect(err).NotTo(HaveOccurred())

		decision, err := g.Navigate(ctx, "/payment/history")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Repeated).To(BeTrue())
		Expect(decision.Matched).To(BeTrue())
		Expect(decision.Allowed).To(BeTrue())
	})

	It("should not loop after the redirect is followed", func() {
		_, _ = g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		first, _ := g.Navigate(ctx, "/admin")

		decision, err := g.Navigate(ctx, first.Target)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindNone))
		Expect(decision.Allowed).To(BeTrue())
		Expect(navigator.Targets()).To(HaveLen(1))
	})

	It("should ignore stale snapshots", func() {
		old := holder.Replace(*grants(privilege("admin")))
		newer := holder.Replace(*grants(privilege("payments", "R")))

		_, err := g.SetGrants(ctx, newer)
		Expect(err).NotTo(HaveOccurred())
		decision, err := g.SetGrants(ctx, old)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Repeated).To(BeTrue())
		Expect(g.Snapshot().Version).To(Equal(newer.Version))
	})

	It("should go inert again after invalidation", func() {
		_, _ = g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		g.Invalidate()

		decision, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindNone))
		Expect(g.Snapshot().Loaded()).To(BeFalse())
		Expect(navigator.Targets()).To(BeEmpty())
	})

	It("should evaluate again after a redirect that failed", func() {
		_, _ = g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		navigator.err = errors.New("router busy")

		_, err := g.Navigate(ctx, "/admin")
		Expect(err).To(MatchError(ContainSubstring("router busy")))

		navigator.err = nil
		decision, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindRedirect))
		Expect(navigator.Targets()).To(Equal([]string{"/payment/history"}))
	})

	It("should discard a redirect when the context is already cancelled", func() {
		_, _ = g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		decision, err := g.Navigate(cancelled, "/admin")
		Expect(err).To(MatchError(context.Canceled))
		Expect(decision.Discarded).To(BeTrue())
		Expect(navigator.Targets()).To(BeEmpty())
	})

	It("should send users with no reachable page to access denied", func() {
		_, _ = g.SetGrants(ctx, holder.Replace(*grants()))

		decision, err := g.Navigate(ctx, "/payment")
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindDenied))

		decision, err = g.Navigate(ctx, guard.DefaultAccessDeniedPath)
		Expect(err).NotTo(HaveOccurred())
		Expect(decision.Kind).To(Equal(guard.KindNone))
		Expect(navigator.Targets()).To(Equal([]string{guard.DefaultAccessDeniedPath}))
	})

	It("should publish applied redirects", func() {
		bus := events.NewEventBus(nil)
		var (
			mu   sync.Mutex
			seen []*events.GuardRedirectedEvent
		)
		bus.Subscribe(events.EventTypeGuardRedirected, func(ctx context.Context, e events.Event) error {
			mu.Lock()
			defer mu.Unlock()
			seen = append(seen, e.(*events.GuardRedirectedEvent))
			return nil
		})

		g = guard.New(guard.Config{Catalog: testCatalog(), Navigator: navigator, Bus: bus, SessionID: "s-1"})
		_, _ = g.SetGrants(ctx, holder.Replace(*grants(privilege("payments", "R"))))
		_, err := g.Navigate(ctx, "/admin")
		Expect(err).NotTo(HaveOccurred())
		bus.Wait()

		mu.Lock()
		defer mu.Unlock()
		Expect(seen).To(HaveLen(1))
		Expect(seen[0].SessionID).To(Equal("s-1"))
		Expect(seen[0].From).To(Equal("/admin"))
		Expect(seen[0].Target).To(Equal("/payment/history"))
		Expect(seen[0].Denied).To(BeFalse())
	})
})
