package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	"github.com/spf13/cobra"

	"github.com/frahmantamala/org-portal/internal"
	"github.com/frahmantamala/org-portal/internal/account"
	"github.com/frahmantamala/org-portal/internal/auth"
	"github.com/frahmantamala/org-portal/internal/core/events"
	"github.com/frahmantamala/org-portal/internal/department"
	"github.com/frahmantamala/org-portal/internal/employee"
	"github.com/frahmantamala/org-portal/internal/request"
	"github.com/frahmantamala/org-portal/internal/router"
	"github.com/frahmantamala/org-portal/internal/store"
	"github.com/frahmantamala/org-portal/internal/store/file"
	"github.com/frahmantamala/org-portal/internal/store/sqlstore"
	"github.com/frahmantamala/org-portal/internal/transport"
	"github.com/frahmantamala/org-portal/internal/transport/rest"
	"github.com/frahmantamala/org-portal/pkg/logger"
)

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server exposing the navigation and command API`,
	Run: func(cmd *cobra.Command, args []string) {
		startHTTPServer()
	},
}

type Dependencies struct {
	Config  *internal.Config
	Logger  *slog.Logger
	Backend store.Backend
	Bus     *events.EventBus
	Store   *store.Store

	Auth        *auth.Service
	Router      *router.Router
	Accounts    *account.Service
	Departments *department.Service
	Employees   *employee.Service
	Requests    *request.Service

	closeBackend func() error
}

func (d *Dependencies) Session() auth.Session {
	return d.Auth.Current()
}

func (d *Dependencies) Close() {
	if d.closeBackend == nil {
		return
	}
	if err := d.closeBackend(); err != nil {
		d.Logger.Error("storage close error", "error", err)
	}
}

func startHTTPServer() {
	deps, err := initializeDependencies()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize dependencies: %v\n", err)
		os.Exit(1)
	}
	defer deps.Close()

	mux := chi.NewRouter()
	setupRoutes(mux, deps)

	addr := fmt.Sprintf(":%d", deps.Config.Server.Port)
	deps.Logger.Info("Starting HTTP server", "address", addr, "storage", deps.Config.Storage.Driver)

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
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
	case err := <-serverErrChan:
		if err != nil && err != http.ErrServerClosed {
			deps.Logger.Error("Server failed to start", "error", err)
			return
		}
	}

	deps.Logger.Info("Server stopped")
}

func setupRoutes(mux *chi.Mux, deps *Dependencies) {
	base := transport.NewBaseHandler(deps.Logger)

	rest.RegisterAllRoutes(mux, rest.Handlers{
		Base:       base,
		Session:    deps.Session,
		Health:     rest.NewHealthHandler(deps.Backend, deps.Config.Storage.Driver),
		Navigation: rest.NewNavigationHandler(base, deps.Router, deps.Session),
		Auth:       auth.NewHandler(base, deps.Auth, deps.Router),
		Account:    account.NewHandler(base, deps.Accounts, deps.Session),
		Department: department.NewHandler(base, deps.Departments, deps.Session),
		Employee:   employee.NewHandler(base, deps.Employees, deps.Session),
		Request:    request.NewHandler(base, deps.Requests, deps.Session),
	}, deps.Logger)
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger.Init(config.Observability.Logging.Level, config.Observability.Logging.Format)
	lg := logger.LoggerWrapper()

	backend, closeBackend, err := openBackend(config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	deps := buildDependencies(config, lg, backend)
	deps.closeBackend = closeBackend

	if _, err := deps.Store.Load(); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to load document: %w", err)
	}
	deps.Auth.RestoreSession()

	return deps, nil
}

// buildDependencies wires the services over an already opened backend.
func buildDependencies(config *internal.Config, lg *slog.Logger, backend store.Backend) *Dependencies {
	bus := events.NewEventBus(lg)
	events.SubscribeAudit(bus, lg)
	st := store.New(backend, config.Storage.DocumentKey, bus, lg)
	authService := auth.NewService(st, bus, lg)

	sessionState := func() router.SessionState { return authService.Current() }

	return &Dependencies{
		Config:      config,
		Logger:      lg,
		Backend:     backend,
		Bus:         bus,
		Store:       st,
		Auth:        authService,
		Router:      router.New(sessionState, authService, bus, lg),
		Accounts:    account.NewService(st, authService, lg),
		Departments: department.NewService(st, lg),
		Employees:   employee.NewService(st, lg),
		Requests:    request.NewService(st, lg),
	}
}

// openBackend returns the configured backend and a function releasing it.
func openBackend(cfg internal.StorageConfig) (store.Backend, func() error, error) {
	switch cfg.Driver {
	case internal.StorageMemory:
		backend := store.NewMemoryBackend()
		return backend, backend.Close, nil
	case internal.StorageFile:
		backend, err := file.NewOSBackend(cfg.Dir)
		if err != nil {
			return nil, nil, err
		}
		return backend, nil, nil
	case internal.StorageSQLite, internal.StoragePostgres:
		db, err := sqlstore.Open(sqlstore.Options{
			Driver:       cfg.Driver,
			Source:       cfg.Source,
			MaxOpenConns: cfg.MaxOpenConns,
			MaxIdleConns: cfg.MaxIdleConns,
		})
		if err != nil {
			return nil, nil, err
		}
		sqlDB, err := db.DB()
		if err != nil {
			return nil, nil, err
		}
		return sqlstore.NewBackend(db), sqlDB.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}
