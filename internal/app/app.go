package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vadim/bot-radar/internal/config"
	httpcontroller "github.com/vadim/bot-radar/internal/controller/http"
	"github.com/vadim/bot-radar/internal/database"
	"github.com/vadim/bot-radar/internal/domain/analysis/dao"
	"github.com/vadim/bot-radar/internal/domain/analysis/policy"
	"github.com/vadim/bot-radar/internal/domain/analysis/scheduler"
	"github.com/vadim/bot-radar/internal/domain/analysis/service"
	"github.com/vadim/bot-radar/internal/httpx/response"
	"github.com/vadim/bot-radar/internal/httpx/upstream/x"
	"github.com/vadim/bot-radar/internal/metrics"
	"github.com/vadim/bot-radar/internal/storage"
)

// App is the main application container
type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     *chi.Mux
	logger     *slog.Logger

	// Infrastructure; pool and archive are nil when not configured
	pool    *pgxpool.Pool
	archive *storage.ReportArchive

	// Domain policies (interfaces for HTTP handlers)
	analysisPolicy *policy.Policy

	// Scheduler for history retention
	scheduler *scheduler.Scheduler
}

// NewApp creates and initializes the application
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	// Initialize logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: parseLevel(cfg.Log.Level),
	}))

	// Initialize router with middleware
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.Timeout(30 * time.Second))

	app := &App{
		cfg:    cfg,
		router: r,
		logger: logger,
	}

	// Initialize infrastructure
	if err := app.initInfrastructure(ctx); err != nil {
		return nil, fmt.Errorf("initializing infrastructure: %w", err)
	}

	// Initialize domain layers
	if err := app.initDomains(ctx); err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("initializing domains: %w", err)
	}

	// Register routes
	if err := app.registerRoutes(); err != nil {
		app.closeInfrastructure()
		return nil, fmt.Errorf("registering routes: %w", err)
	}

	// Initialize HTTP server
	app.httpServer = &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      app.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Initialize scheduler
	if cfg.Retention.Enabled {
		app.scheduler = scheduler.New(app.analysisPolicy, cfg.Retention.Interval, cfg.Retention.MaxAge, logger).
			WithObserver(metrics.Recorder{})
	}

	return app, nil
}

// initInfrastructure initializes infrastructure components (DB, S3)
func (a *App) initInfrastructure(ctx context.Context) error {
	if dsn := a.cfg.Database.PostgresDSN; dsn != "" {
		pool, err := database.NewPostgresPool(ctx, dsn, database.PoolOptions{
			MaxConns:        a.cfg.Database.MaxOpenConns,
			MinConns:        a.cfg.Database.MaxIdleConns,
			MaxConnLifetime: a.cfg.Database.ConnLifetime,
		})
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		a.pool = pool
	} else {
		a.logger.Warn("DATABASE_URL is not set, analysis history is kept in memory")
	}

	if a.cfg.S3.Enabled {
		a.archive = storage.NewReportArchive(storage.S3Config{
			Endpoint:        a.cfg.S3.Endpoint,
			AccessKeyID:     a.cfg.S3.AccessKeyID,
			SecretAccessKey: a.cfg.S3.SecretAccessKey,
			Bucket:          a.cfg.S3.Bucket,
			Region:          a.cfg.S3.Region,
			PublicURL:       a.cfg.S3.PublicURL,
		})
	}

	return nil
}

// initDomains initializes domain layers (DAO, Service, Policy)
func (a *App) initDomains(ctx context.Context) error {
	var historyRepo dao.HistoryRepository
	if a.pool != nil {
		pg := dao.NewHistoryPostgres(a.pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			return fmt.Errorf("ensuring history schema: %w", err)
		}
		historyRepo = pg
	} else {
		historyRepo = dao.NewHistoryMemory()
	}

	var svcOpts []service.Option
	if a.archive != nil {
		svcOpts = append(svcOpts, service.WithReportStore(a.archive))
	}
	analysisService := service.New(historyRepo, a.logger, svcOpts...)

	// Profile lookups need an app-only bearer token; raw analyses work without one
	var fetcher policy.ProfileFetcher
	if a.cfg.X.Enabled() {
		fetcher = x.New(
			x.WithBaseURL(a.cfg.X.BaseURL),
			x.WithAPIVersion(a.cfg.X.APIVersion),
			x.WithBearerToken(a.cfg.X.BearerToken),
			x.WithHTTPClient(&http.Client{Timeout: a.cfg.X.Timeout}),
			x.WithRateLimit(a.cfg.X.RPS, a.cfg.X.Burst),
		)
	} else {
		a.logger.Warn("X_BEARER_TOKEN is not set, profile lookups are disabled")
	}

	var policyOpts []policy.Option
	if a.cfg.Metrics.Enabled {
		policyOpts = append(policyOpts, policy.WithObserver(metrics.Recorder{}))
	}
	a.analysisPolicy = policy.New(analysisService, fetcher, a.logger, policyOpts...)

	return nil
}

// registerRoutes registers all HTTP routes
func (a *App) registerRoutes() error {
	// Health check
	a.router.Get("/healthz", a.healthHandler)
	a.router.Get("/readyz", a.readyHandler)

	if a.cfg.Metrics.Enabled {
		a.router.Handle(a.cfg.Metrics.Path, metrics.Handler())
	}

	// Swagger UI documentation
	swaggerHandler, err := httpcontroller.NewSwaggerHandler("Bot Radar API", OpenAPISpec)
	if err != nil {
		return err
	}
	swaggerHandler.RegisterRoutes(a.router)

	// API v1
	a.router.Route("/api/v1", func(r chi.Router) {
		analysisHandler := httpcontroller.NewAnalysisHandler(a.analysisPolicy)
		analysisHandler.RegisterRoutes(r)
	})

	return nil
}

// healthHandler handles health check requests
func (a *App) healthHandler(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{"status": "ok"})
}

// readyHandler handles readiness check requests
func (a *App) readyHandler(w http.ResponseWriter, r *http.Request) {
	if a.pool != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := a.pool.Ping(ctx); err != nil {
			a.logger.Warn("readiness check failed", "error", err)
			response.ServiceUnavailable(w, "database unavailable")
			return
		}
	}
	response.OK(w, map[string]string{"status": "ready"})
}

// Run starts the application and blocks until shutdown signal
func (a *App) Run(ctx context.Context) error {
	// Start scheduler if enabled
	if a.scheduler != nil {
		a.scheduler.Start(ctx)
	}

	// Channel to receive errors from server
	errCh := make(chan error, 1)

	// Start HTTP server in goroutine
	go func() {
		a.logger.Info("starting HTTP server", "addr", a.cfg.Server.Address())
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		a.Shutdown(context.Background())
		return fmt.Errorf("server error: %w", err)
	case sig := <-quit:
		a.logger.Info("received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		a.logger.Info("context cancelled")
	}

	// Graceful shutdown
	return a.Shutdown(context.Background())
}

// Shutdown gracefully shuts down the application
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down...")

	// Stop scheduler
	if a.scheduler != nil {
		a.scheduler.Stop()
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := a.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down HTTP server: %w", err)
	}

	a.closeInfrastructure()

	a.logger.Info("shutdown complete")
	return nil
}

func (a *App) closeInfrastructure() {
	if a.pool != nil {
		a.pool.Close()
	}
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
