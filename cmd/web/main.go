package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"ecommerce-dashboard/internal/config"
	"ecommerce-dashboard/internal/middleware"
	"ecommerce-dashboard/internal/observability"
	"ecommerce-dashboard/internal/server"
	"ecommerce-dashboard/internal/services"
	"ecommerce-dashboard/internal/ui/templates"
)

const (
	renderTimeout = 10 * time.Second
	cacheMaxAge   = "public, max-age=300"
)

// dashboardHandler renders the full page for the start/end query parameters,
// falling back to the full data range when either does not parse.
func dashboardHandler(d *services.Dashboard, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), renderTimeout)
		defer cancel()

		q := r.URL.Query()
		dateRange, err := d.ResolveRange(q.Get("start"), q.Get("end"))
		if err != nil {
			observability.RequestLogger(ctx, logger).Warn("invalid date range, using full range", "error", err)
			dateRange = d.Bounds()
		}

		rep := d.Report(ctx, dateRange)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Cache-Control", cacheMaxAge)
		if err := templates.Dashboard(rep, d.Bounds(), d.Currency()).Render(ctx, w); err != nil {
			observability.RequestLogger(ctx, logger).Error("render dashboard", "error", err)
			http.Error(w, "render error", http.StatusInternalServerError)
		}
	}
}

func newHandler(cfg *config.Config, d *services.Dashboard, logger *slog.Logger, metrics *observability.Metrics, rateLimiter *middleware.RateLimiter) http.Handler {
	templateHandlers := &server.TemplateHandlers{
		Dashboard: dashboardHandler(d, logger),
	}

	srv := server.NewServer(d, logger, templateHandlers, metrics)

	middlewareChain := middleware.Chain(
		middleware.Recovery(logger),
		middleware.RequestID(),
		middleware.Logger(logger),
		middleware.Tracing(),
		middleware.SecurityHeaders(),
		middleware.CORS(cfg.Security),
		middleware.TrustedProxy(cfg.Security),
		middleware.RateLimit(rateLimiter, logger),
		middleware.Metrics(metrics),
	)

	return middlewareChain(srv)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(cfg.Logger)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"version", "1.0.0",
		"config", cfg,
	)

	var metrics *observability.Metrics
	if cfg.Metrics.Enabled {
		metrics = observability.NewMetrics()
	}

	currency, err := services.NewCurrencyFormatter(cfg.Report.CurrencyLocale)
	if err != nil {
		logger.Error("invalid currency locale", "locale", cfg.Report.CurrencyLocale, "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Data.LoadTimeout)
	defer cancel()

	dashboard, err := services.LoadDashboard(ctx, cfg.Data.CSVFile,
		services.WithLogger(logger),
		services.WithMetrics(metrics),
		services.WithCurrency(currency),
	)
	if err != nil {
		logger.Error("failed to load CSV data", "error", err)
		os.Exit(1)
	}

	rateLimiter := middleware.NewRateLimiter(cfg.Security)
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	go rateLimiter.Run(sweepCtx)

	httpServer := &http.Server{
		Addr:         cfg.Address(),
		Handler:      newHandler(cfg, dashboard, logger, metrics, rateLimiter),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	gracefulServer := server.NewGracefulServer(httpServer, logger, cfg)

	gracefulServer.RegisterShutdownHook(func(ctx context.Context) error {
		stopSweep()
		logger.Info("rate limiter stopped")
		return nil
	})

	logger.Info("starting graceful server")
	if err := gracefulServer.ListenAndServe(); err != nil {
		logger.Error("server failed", "error", err)
		os.Exit(1)
	}

	logger.Info("application stopped gracefully")
}
