package app

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

	"github.com/go-chi/chi/v5"

	"basketpulse/internal/config"
	"basketpulse/internal/dataprocessing"
	apierrors "basketpulse/internal/errors"
	"basketpulse/internal/infrastructure"
	customMiddleware "basketpulse/internal/middleware"
	"basketpulse/internal/services"
	handlers "basketpulse/internal/transport/http"
)

// Application represents the main application container
type Application struct {
	Config           *config.Config
	Router           *chi.Mux
	Server           *http.Server
	Logger           *slog.Logger
	OTelProviders    *infrastructure.OTelProviders
	Cache            *dataprocessing.DatasetCache
	DashboardService *services.DashboardService
	HealthService    *services.HealthService
	ErrorHandler     *apierrors.ErrorHandler
}

// NewApplication wires the dashboard server from cfg
func NewApplication(cfg *config.Config, logger *slog.Logger) (*Application, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		logger = infrastructure.GetLogger()
	}

	logger.Info("application starting",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("dataset_dir", cfg.Dataset.Dir))

	otelProviders, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFrom(cfg.Telemetry), logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize OpenTelemetry: %w", err)
	}

	app := &Application{
		Config:        cfg,
		Logger:        logger,
		OTelProviders: otelProviders,
		ErrorHandler:  apierrors.NewErrorHandler(logger, false),
	}

	app.initializeServices()
	app.setupRouter()
	app.createServer()

	return app, nil
}

// initializeServices builds the pipeline cache and the services on top of it
func (a *Application) initializeServices() {
	loader := dataprocessing.NewLoader(a.Logger)
	a.Cache = dataprocessing.NewDatasetCache(loader, a.Config.Dataset.HashContents, a.Logger)

	a.DashboardService = services.NewDashboardService(a.Config, a.Cache, a.Logger,
		services.WithTracer(a.OTelProviders.Tracer),
		services.WithMetrics(a.OTelProviders.Metrics),
	)
	a.HealthService = services.NewHealthService(config.AppVersion, a.DashboardService, a.Logger)
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	// RequestID → RealIP → OTel → Logger → Recoverer → Timeout
	r.Use(customMiddleware.RequestID)
	r.Use(customMiddleware.RealIP)
	r.Use(customMiddleware.NewOTelMiddleware(a.OTelProviders).Handler)
	r.Use(customMiddleware.StructuredLogger(a.Logger))
	r.Use(customMiddleware.Recoverer(a.ErrorHandler))
	r.Use(customMiddleware.Timeout(a.Config.Server.RequestTimeout, a.Logger))
	r.Use(customMiddleware.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(customMiddleware.CORS(a.getCORSConfig()))
	}

	if a.Config.Security.RateLimit.Enabled {
		r.Use(customMiddleware.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger,
			a.ErrorHandler,
		).Handler)
	}

	r.NotFound(a.ErrorHandler.NotFound)
	r.MethodNotAllowed(a.ErrorHandler.MethodNotAllowed)

	a.setupAPIRoutes(r)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle(config.MetricsEndpoint, a.OTelProviders.PrometheusHTTP)
	}

	a.Router = r
}

// setupAPIRoutes configures API endpoints
func (a *Application) setupAPIRoutes(r chi.Router) {
	r.Route(config.APIBasePath, func(r chi.Router) {
		healthHandler := handlers.NewHealthHandler(a.HealthService, a.Logger)
		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)

		dashboardHandler := handlers.NewDashboardHandler(a.DashboardService, a.OTelProviders.Metrics, a.Logger, a.ErrorHandler)
		r.Mount("/", dashboardHandler.Routes())
	})
}

func (a *Application) getCORSConfig() customMiddleware.CORSConfig {
	return customMiddleware.CORSConfig{
		AllowedOrigins: a.Config.Security.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{
			"Accept",
			"Content-Type",
			"X-Request-ID",
			"X-Requested-With",
		},
		ExposedHeaders: []string{"X-Request-ID", "Content-Disposition"},
		MaxAge:         300,
		Logger:         a.Logger,
	}
}

// createServer creates the HTTP server
func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           a.Config.Server.Address(),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// Start starts the HTTP server and warms the dataset cache in the background.
// cancel is called when the server fails.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", config.AppName),
		slog.String("version", config.AppVersion),
		slog.String("address", a.Server.Addr),
		slog.String("level", a.Config.Logging.Level))

	if err := a.performStartupHealthCheck(ctx); err != nil {
		a.Logger.WarnContext(ctx, "startup health check warnings", slog.String("warnings", err.Error()))
	}

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	go a.warmCache(ctx)

	a.Logger.InfoContext(ctx, "application started",
		slog.String("url", fmt.Sprintf("http://%s", a.Server.Addr)))
	return nil
}

// warmCache computes the first dashboard so the first request is served from cache
func (a *Application) warmCache(ctx context.Context) {
	start := time.Now()
	d, err := a.DashboardService.Dashboard(ctx)
	if err != nil {
		a.Logger.WarnContext(ctx, "cache warm-up failed", slog.String("error", err.Error()))
		return
	}
	a.Logger.InfoContext(ctx, "cache warmed",
		slog.Int("organic_orders", d.Overview.OrganicOrders),
		slog.Duration("duration", time.Since(start)))
}

// performStartupHealthCheck reports unreadable dataset files before the first request
func (a *Application) performStartupHealthCheck(ctx context.Context) error {
	if err := a.DashboardService.CheckDataset(ctx); err != nil {
		return fmt.Errorf("dataset check failed: %w", err)
	}
	return nil
}

// Stop shuts the server down and flushes telemetry
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown error: %w", err)
	}

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "error shutting down OpenTelemetry", slog.String("error", err.Error()))
		}
	}

	a.Logger.InfoContext(ctx, "application shutdown complete")
	return nil
}

// Run runs the application until interrupted
func (a *Application) Run() error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case sig := <-sigChan:
		a.Logger.InfoContext(ctx, "received signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		a.Logger.WarnContext(ctx, "server stopped unexpectedly")
	}

	return a.Stop(context.Background())
}
