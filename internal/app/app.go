package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"stockpulse/internal/config"
	apierrors "stockpulse/internal/errors"
	"stockpulse/internal/exporter"
	"stockpulse/internal/infrastructure"
	custommw "stockpulse/internal/middleware"
	"stockpulse/internal/services"
	handlers "stockpulse/internal/transport/http"
	ws "stockpulse/internal/websocket"
)

const AppName = "stockpulse"

// Version is overridden at build time with -ldflags.
var Version = "dev"

// Application holds the wired components of the web service
type Application struct {
	Config          *config.Config
	Logger          *slog.Logger
	OTelProviders   *infrastructure.OTelProviders
	BusinessMetrics *infrastructure.BusinessMetrics
	RuntimeMetrics  *infrastructure.RuntimeMetrics
	Hub             *ws.Hub
	AnalysisService *services.AnalysisService
	ReportWriter    *exporter.ReportWriter
	Router          chi.Router
	Server          *http.Server

	errorHandler *apierrors.ErrorHandler
}

// New loads configuration and builds the application
func New() (*Application, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application from an explicit configuration
func NewWithConfig(cfg *config.Config) (*Application, error) {
	otelCfg := infrastructure.DefaultOTelConfig()
	otelCfg.ServiceVersion = Version
	return newApplication(cfg, otelCfg)
}

func newApplication(cfg *config.Config, otelCfg *infrastructure.OTelConfig) (*Application, error) {
	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("initializing logger: %w", err)
	}

	providers, err := infrastructure.InitializeOTel(otelCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	bm, err := infrastructure.CreateBusinessMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("creating business metrics: %w", err)
	}

	rm, err := infrastructure.NewRuntimeMetrics(providers.Meter)
	if err != nil {
		return nil, fmt.Errorf("creating runtime metrics: %w", err)
	}

	hub := ws.NewHub(logger)
	service := services.NewAnalysisService(logger, hub, bm,
		OptionsFromConfig(cfg.Analysis), cfg.Analysis.Workers)
	reportWriter := exporter.NewReportWriter(cfg.Export.Dir, bm)

	app := &Application{
		Config:          cfg,
		Logger:          logger,
		OTelProviders:   providers,
		BusinessMetrics: bm,
		RuntimeMetrics:  rm,
		Hub:             hub,
		AnalysisService: service,
		ReportWriter:    reportWriter,
		errorHandler:    apierrors.NewErrorHandler(logger, cfg.Logging.Development),
	}

	app.setupRouter()
	app.createServer()

	return app, nil
}

// OptionsFromConfig maps the analysis config onto service options
func OptionsFromConfig(cfg config.AnalysisConfig) services.Options {
	opts := services.Options{MaxDays: cfg.MaxDays}
	opts.Params.LargeChangeDeltaPct = cfg.LargeChangeDeltaPct
	opts.Params.VolumeSpikeThreshold = cfg.VolumeSpikeThreshold
	opts.Params.MAWindow = cfg.MAWindow
	opts.Params.BollingerWindow = cfg.BollingerWindow
	opts.Params.BollingerNStd = cfg.BollingerNStd
	opts.Params.RSIWindow = cfg.RSIWindow
	return opts
}

// setupRouter configures the HTTP router with all routes
func (a *Application) setupRouter() {
	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.RealIP)

	otelMiddleware := custommw.NewOTelMiddleware(a.OTelProviders, a.BusinessMetrics)
	r.Use(otelMiddleware.Handler)

	r.Use(custommw.StructuredLogger(a.Logger))
	r.Use(custommw.Recoverer(a.Logger))
	r.Use(custommw.SecurityHeaders)

	if a.Config.Security.EnableCORS {
		r.Use(custommw.CORS(custommw.CORSConfig{
			AllowedOrigins: a.Config.Security.AllowedOrigins,
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		}))
	}

	if a.Config.Security.RateLimit.Enabled {
		limiter := custommw.NewRateLimiter(
			a.Config.Security.RateLimit.RPS,
			a.Config.Security.RateLimit.Burst,
			a.Logger)
		r.Use(limiter.Handler)
	}

	healthHandler := handlers.NewHealthHandler(Version, a.Logger)
	healthHandler.AddProbe("export_dir", a.exportDirProbe)
	healthHandler.AddProbe("websocket_hub", a.hubProbe)

	analysisHandler := handlers.NewAnalysisHandler(
		a.AnalysisService, a.ReportWriter, a.Config.Upload, a.Logger, a.errorHandler)

	wsHandler := handlers.NewWebSocketHandler(
		a.Hub, a.Config.WebSocket, a.Config.Security, a.Logger)

	r.Route("/api", func(r chi.Router) {
		r.Use(render.SetContentType(render.ContentTypeJSON))
		r.Use(custommw.Timeout(a.Config.Server.RequestTimeout, a.Logger))

		r.Mount("/health", healthHandler.Routes())
		r.Get("/version", healthHandler.Version)
		r.Post("/analyze", analysisHandler.Analyze)
		r.Get("/params", analysisHandler.Params)
	})

	r.Get("/ws", wsHandler.Handle)

	if a.OTelProviders.PrometheusHTTP != nil {
		r.Handle("/metrics", a.OTelProviders.PrometheusHTTP)
	}

	r.With(custommw.Compress(5)).Get("/", handlers.ServeUploadPage("web"))

	r.NotFound(a.errorHandler.NotFound)
	r.MethodNotAllowed(a.errorHandler.MethodNotAllowed)

	a.Router = r
}

func (a *Application) createServer() {
	a.Server = &http.Server{
		Addr:           fmt.Sprintf(":%d", a.Config.Server.Port),
		Handler:        a.Router,
		ReadTimeout:    a.Config.Server.ReadTimeout,
		WriteTimeout:   a.Config.Server.WriteTimeout,
		IdleTimeout:    a.Config.Server.IdleTimeout,
		MaxHeaderBytes: a.Config.Server.MaxHeaderBytes,
	}
}

// exportDirProbe verifies the report directory is usable
func (a *Application) exportDirProbe() error {
	if err := os.MkdirAll(a.Config.Export.Dir, 0755); err != nil {
		return fmt.Errorf("export dir not writable: %w", err)
	}
	return nil
}

// hubProbe verifies the websocket hub loop is running
func (a *Application) hubProbe() error {
	if !a.Hub.Running() {
		return fmt.Errorf("websocket hub not running")
	}
	return nil
}

// Start starts the background services and the HTTP server. Server
// failures cancel the supplied context.
func (a *Application) Start(ctx context.Context, cancel context.CancelFunc) error {
	a.Logger.InfoContext(ctx, "starting application",
		slog.String("name", AppName),
		slog.String("version", Version),
		slog.Int("port", a.Config.Server.Port),
		slog.String("log_level", a.Config.Logging.Level))

	a.Hub.Start()
	a.RuntimeMetrics.Start(ctx, 15*time.Second)

	go func() {
		if err := a.Server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			a.Logger.ErrorContext(ctx, "server error", slog.String("error", err.Error()))
			cancel()
		}
	}()

	a.Logger.InfoContext(ctx, "application started",
		slog.String("address", fmt.Sprintf("http://localhost:%d", a.Config.Server.Port)))

	return nil
}

// Stop gracefully stops the application
func (a *Application) Stop(ctx context.Context) error {
	a.Logger.InfoContext(ctx, "shutting down application")

	shutdownCtx, cancel := context.WithTimeout(ctx, a.Config.Server.ShutdownTimeout)
	defer cancel()

	if err := a.Server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	a.Hub.Stop()

	if a.OTelProviders != nil {
		if err := a.OTelProviders.Shutdown(shutdownCtx); err != nil {
			a.Logger.ErrorContext(ctx, "telemetry shutdown error",
				slog.String("error", err.Error()))
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

	if err := a.Start(ctx, cancel); err != nil {
		return err
	}

	select {
	case <-sigChan:
		a.Logger.InfoContext(ctx, "received interrupt signal")
	case <-ctx.Done():
	}

	return a.Stop(context.Background())
}
