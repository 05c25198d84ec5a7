package rest

import (
	"log/slog"
	"net/http"

	"github.com/frahmantamala/navguard/internal/auth"
	"github.com/frahmantamala/navguard/internal/guard"
	"github.com/frahmantamala/navguard/internal/navigation"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/frahmantamala/navguard/internal/transport/middleware"
	"github.com/frahmantamala/navguard/internal/transport/openapi"
	"github.com/frahmantamala/navguard/internal/transport/swagger"
	"github.com/go-chi/chi"
	chiMiddleware "github.com/go-chi/chi/middleware"
)

// Dependencies is everything the router mounts.
type Dependencies struct {
	Logger            *slog.Logger
	Health            *HealthHandler
	AuthHandler       *auth.Handler
	NavigationHandler *navigation.Handler
	GuardHandler      *guard.Handler
	SessionHandler    *session.Handler
	Loader            *session.Loader
	Validator         *openapi.Validator
	Middleware        MiddlewareOptions
}

type MiddlewareOptions struct {
	Production     bool
	AllowedOrigins []string
	RateLimit      func(http.Handler) http.Handler
}

func RegisterAllRoutes(router *chi.Mux, deps Dependencies) {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	// Apply global middleware
	router.Use(chiMiddleware.RequestID)
	router.Use(middleware.RequestID)
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.SecureHeaders(deps.Middleware.Production))
	router.Use(middleware.CORS(deps.Middleware.AllowedOrigins))
	router.Use(middleware.LoggingMiddleware(logger))

	// Serve OpenAPI spec at root (outside API prefix)
	router.Get("/openapi.yml", openapi.Serve)
	// Swagger UI route at root
	router.Handle("/swagger/*", swagger.Handler("/openapi.yml"))

	// Mount API under /api/v1 to match the OpenAPI paths
	router.Route("/api/v1", func(r chi.Router) {
		if deps.Validator != nil {
			r.Use(deps.Validator.Middleware)
		}

		if deps.Health != nil {
			r.Get("/health", deps.Health.healthCheckHandler)
			r.Get("/ping", deps.Health.pingHandler)
		}

		if deps.AuthHandler == nil {
			return
		}

		// Everything below needs a session token
		r.Group(func(pr chi.Router) {
			pr.Use(deps.AuthHandler.AuthMiddleware)
			if deps.Middleware.RateLimit != nil {
				pr.Use(deps.Middleware.RateLimit)
			}

			if deps.SessionHandler != nil {
				pr.Get("/session/grants", deps.SessionHandler.GetGrants)

				// Grant sets are written by the issuer, not by the session's user
				pr.Group(func(wr chi.Router) {
					wr.Use(middleware.RequirePermissions(auth.ScopeGrantsWrite))
					wr.Put("/session/grants", deps.SessionHandler.ReplaceGrants)
					wr.Delete("/session/grants", deps.SessionHandler.InvalidateGrants)
				})
			}

			// Routes evaluated against the session's grant set
			pr.Group(func(gr chi.Router) {
				if deps.Loader != nil {
					gr.Use(deps.Loader.Middleware)
				}

				if deps.NavigationHandler != nil {
					gr.Get("/navigation", deps.NavigationHandler.GetMenu)
					gr.Get("/navigation/first-path", deps.NavigationHandler.GetFirstPath)
				}

				if deps.GuardHandler != nil {
					gr.Post("/guard/evaluate", deps.GuardHandler.Evaluate)
					gr.Post("/guard/navigate", deps.GuardHandler.Navigate)
				}
			})
		})
	})
}
