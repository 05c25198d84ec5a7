package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/frahmantamala/navguard/internal"
	"github.com/frahmantamala/navguard/internal/access"
	"github.com/frahmantamala/navguard/internal/auth"
	"github.com/frahmantamala/navguard/internal/core/events"
	"github.com/frahmantamala/navguard/internal/guard"
	"github.com/frahmantamala/navguard/internal/navigation"
	"github.com/frahmantamala/navguard/internal/session"
	"github.com/frahmantamala/navguard/internal/transport"
	"github.com/frahmantamala/navguard/internal/transport/middleware"
	"github.com/frahmantamala/navguard/internal/transport/openapi"
	"github.com/frahmantamala/navguard/internal/transport/rest"
	"github.com/frahmantamala/navguard/pkg/logger"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server serving menus, first-path lookups and guard decisions`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config   *internal.Config
	Storage  *storage
	Bus      *events.EventBus
	Router   *chi.Mux
	Registry *guard.Registry
	Logger   *slog.Logger
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Config.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: deps.Config.Server.ReadHeaderTimeout,
		ReadTimeout:       deps.Config.Server.ReadTimeout,
		WriteTimeout:      deps.Config.Server.WriteTimeout,
		IdleTimeout:       deps.Config.Server.IdleTimeout,
	}

	// Signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("Received signal, shutting down...", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("Server shutdown error", "error", err)
		}
		// let in-flight redirect events drain before the store goes away
		deps.Bus.Wait()
		if err := deps.Storage.Close(); err != nil {
			deps.Logger.Error("Storage close error", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			deps.Logger.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}

	deps.Logger.Info("Server stopped", "guards", deps.Registry.Len())
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	lg := logger.LoggerWrapper()

	catalog := navigation.DefaultCatalog()
	if err := navigation.Validate(catalog); err != nil {
		return nil, err
	}
	opts, err := guardOptions(config, catalog)
	if err != nil {
		return nil, err
	}

	store, err := openStorage(config)
	if err != nil {
		return nil, err
	}

	bus := events.NewEventBus(lg)
	bus.Subscribe(events.EventTypeGuardRedirected, func(ctx context.Context, event events.Event) error {
		lg.DebugContext(ctx, "guard redirected", "payload", event.Payload())
		return nil
	})
	idleTTL := config.Guard.IdleTTL
	if idleTTL == 0 {
		idleTTL = config.Security.TokenDuration
	}
	registry := guard.NewRegistry(guard.RegistryConfig{
		Catalog: catalog,
		Options: opts,
		Logger:  lg,
		Bus:     bus,
		IdleTTL: idleTTL,
	})

	doc, err := openapi.Load(context.Background())
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to load openapi document: %w", err)
	}
	validator, err := openapi.NewValidator(doc, lg)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to build request validator: %w", err)
	}

	tokens := auth.NewJWTTokenGenerator(config.Security.JWTSecret, config.Security.JWTIssuer, config.Security.TokenDuration)
	base := transport.NewBaseHandler(lg)

	var rateLimit func(http.Handler) http.Handler
	if config.RateLimit.Enabled {
		rateLimit = middleware.RateLimit(config.RateLimit.Requests, config.RateLimit.Window)
	}

	router := chi.NewRouter()
	rest.RegisterAllRoutes(router, rest.Dependencies{
		Logger:            lg,
		Health:            rest.NewHealthHandler(store.Checks),
		AuthHandler:       auth.NewHandler(base, auth.NewService(tokens)),
		NavigationHandler: navigation.NewHandler(base, catalog),
		GuardHandler:      guard.NewHandler(base, catalog, opts, registry),
		SessionHandler:    session.NewHandler(base, session.NewService(store.Store, bus, lg)),
		Loader:            session.NewLoader(store.Store, lg),
		Validator:         validator,
		Middleware: rest.MiddlewareOptions{
			Production:     config.Env == "production",
			AllowedOrigins: config.Server.AllowedOriginList(),
			RateLimit:      rateLimit,
		},
	})

	return &Dependencies{
		Config:   config,
		Storage:  store,
		Bus:      bus,
		Router:   router,
		Registry: registry,
		Logger:   lg,
	}, nil
}

func guardOptions(cfg *internal.Config, catalog []access.Node) (guard.Options, error) {
	policy, err := guard.ParsePolicy(cfg.Guard.MatchPolicy)
	if err != nil {
		return guard.Options{}, err
	}
	opts := guard.Options{
		AccessDeniedPath: cfg.Guard.AccessDeniedPath,
		Policy:           policy,
	}
	if err := opts.Validate(catalog); err != nil {
		return guard.Options{}, fmt.Errorf("invalid guard config: %w", err)
	}
	return opts, nil
}
