package access_test

import (
	"github.com/frahmantamala/navguard/internal/access"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("MatchPath", func() {
	DescribeTable("segment boundary matching",
		func(nodePath, current string, expected bool) {
			Expect(access.MatchPath(nodePath, current)).To(Equal(expected))
		},
		Entry("exact", "/payments", "/payments", true),
		Entry("descendant", "/payments", "/payments/42", true),
		Entry("trailing slash", "/payments/", "/payments", true),
		Entry("query string ignored", "/payments", "/payments?page=2", true),
		Entry("fragment ignored", "/payments", "/payments#top", true),
		Entry("doubled slashes collapse", "/payments", "//payments//history", true),
		Entry("sibling sharing a prefix", "/payment", "/payment-types", false),
		Entry("sibling sharing a prefix, deeper", "/payment", "/payment-types/new", false),
		Entry("shorter current path", "/payments/history", "/payments", false),
		Entry("different route", "/billing", "/payments", false),
		Entry("root matches root", "/", "/", true),
		Entry("root does not swallow everything", "/", "/payments", false),
		Entry("empty node path never matches", "", "/payments", false),
	)

	It("should compare normalised paths", func() {
		Expect(access.SamePath("/payments/", "/payments")).To(BeTrue())
		Expect(access.SamePath("/payments", "/payments/1")).To(BeFalse())
	})
})
