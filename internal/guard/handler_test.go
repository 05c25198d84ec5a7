package guard_test

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"

	"github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/guard"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/frahmantamala/navguard/internal/transport"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Guard Handler", func() {
	var handler *guard.Handler

	BeforeEach(func() {
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		registry := guard.NewRegistry(guard.RegistryConfig{Catalog: testCatalog(), Logger: slogger})
		handler = guard.NewHandler(&transport.BaseHandler{Logger: slogger}, testCatalog(), guard.Options{}, registry)
	})

	request := func(target, body, sessionID string, snap session.Snapshot) *http.Request {
		req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		ctx := session.WithSnapshot(req.Context(), snap)
		if sessionID != "" {
			ctx = internal.ContextWithSessionID(ctx, sessionID)
		}
		return req.WithContext(ctx)
	}

	decode := func(w *httptest.ResponseRecorder) guard.DecisionResponse {
		var response guard.DecisionResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		return response
	}

	loaded := session.Snapshot{Grants: grants(privilege("payments", "R"))}

	Describe("Evaluate", func() {
		It("should return the decision for the request's grants", func() {
			w := httptest.NewRecorder()
			handler.Evaluate(w, request("/guard/evaluate", `{"path":"/admin"}`, "", loaded))

			Expect(w.Code).To(Equal(http.StatusOK))
			response := decode(w)
			Expect(response.Loaded).To(BeTrue())
			Expect(response.Kind).To(Equal(guard.KindRedirect))
			Expect(response.Target).To(Equal("/payment/history"))
		})

		It("should stay inert without grants", func() {
			w := httptest.NewRecorder()
			handler.Evaluate(w, request("/guard/evaluate", `{"path":"/admin"}`, "", session.Snapshot{}))

			response := decode(w)
			Expect(response.Loaded).To(BeFalse())
			Expect(response.Kind).To(Equal(guard.KindNone))
		})

		DescribeTable("should reject bad input",
			func(body string) {
				w := httptest.NewRecorder()
				handler.Evaluate(w, request("/guard/evaluate", body, "", loaded))
				Expect(w.Code).To(Equal(http.StatusBadRequest))
			},
			Entry("not json", `path=/admin`),
			Entry("missing path", `{}`),
			Entry("relative path", `{"path":"admin"}`),
		)
	})

	Describe("Navigate", func() {
		It("should require a session", func() {
			w := httptest.NewRecorder()
			handler.Navigate(w, request("/guard/navigate", `{"path":"/admin"}`, "", loaded))
			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should redirect on every visit to a forbidden page", func() {
			w := httptest.NewRecorder()
			handler.Navigate(w, request("/guard/navigate", `{"path":"/admin"}`, "s-1", loaded))
			Expect(w.Code).To(Equal(http.StatusOK))
			first := decode(w)
			Expect(first.Kind).To(Equal(guard.KindRedirect))

			w = httptest.NewRecorder()
			handler.Navigate(w, request("/guard/navigate", `{"path":"/admin"}`, "s-1", loaded))
			second := decode(w)
			Expect(second.Repeated).To(BeFalse())
			Expect(second.Kind).To(Equal(guard.KindRedirect))
			Expect(second.Target).To(Equal(first.Target))

			w = httptest.NewRecorder()
			handler.Navigate(w, request("/guard/navigate", `{"path":"`+first.Target+`"}`, "s-1", loaded))
			third := decode(w)
			Expect(third.Kind).To(Equal(guard.KindNone))
			Expect(third.Repeated).To(BeTrue())
			Expect(third.Allowed).To(BeTrue())
		})
	})
})
