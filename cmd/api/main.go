// Package main is the entrypoint for the Pulseboard API server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/pulseboard/pulseboard/internal/auth"
	"github.com/pulseboard/pulseboard/internal/billing"
	"github.com/pulseboard/pulseboard/internal/cache"
	"github.com/pulseboard/pulseboard/internal/config"
	"github.com/pulseboard/pulseboard/internal/gemini"
	"github.com/pulseboard/pulseboard/internal/handler"
	"github.com/pulseboard/pulseboard/internal/instagram"
	"github.com/pulseboard/pulseboard/internal/metrics"
	"github.com/pulseboard/pulseboard/internal/middleware"
	"github.com/pulseboard/pulseboard/internal/pipeline"
	"github.com/pulseboard/pulseboard/internal/repository"
	"github.com/pulseboard/pulseboard/internal/server"
	"github.com/pulseboard/pulseboard/internal/session"
	"github.com/pulseboard/pulseboard/internal/youtube"
)

func main() {
	// Initialize context
	ctx := context.Background()

	// .env is optional; real deployments set variables directly.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize database
	repo, err := repository.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer repo.Close()
	logger.Info("connected to database")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// Upstream platform clients share one timeout-tuned HTTP client.
	httpClient := &http.Client{Timeout: 15 * time.Second}
	igClient := instagram.NewClient("", httpClient, logger)
	ytClient := youtube.NewClient("", httpClient, logger)
	geminiClient := gemini.NewClient(gemini.Config{
		APIKey:     cfg.GeminiAPIKey,
		Model:      cfg.GeminiModel,
		HTTPClient: httpClient,
	}, logger)

	// OAuth flows
	googleFlow := auth.NewGoogleFlow(auth.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL(),
	}, httpClient)
	facebookFlow := auth.NewFacebookFlow(auth.Config{
		ClientID:     cfg.FacebookClientID,
		ClientSecret: cfg.FacebookClientSec,
		RedirectURL:  cfg.FacebookRedirectURL(),
	}, httpClient)

	// Core services
	recorder := metrics.NewInMemory()
	sessions := session.NewStore(cacheClient.Client(), 0)
	runner := pipeline.NewRunner(geminiClient, recorder, logger)
	billingSvc := billing.NewService(billing.Config{
		SecretKey: cfg.StripeSecretKey,
		PriceID:   cfg.StripePriceID,
		ClientURL: cfg.ClientURL,
	}, logger)
	if billingSvc == nil {
		logger.Info("billing disabled, no Stripe key configured")
	}
	if !geminiClient.Enabled() {
		logger.Info("augmentation disabled, no Gemini key configured")
	}

	// Initialize handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	metricsHandler := handler.NewMetricsHandler(recorder)
	authHandler := handler.NewAuthHandler(googleFlow, facebookFlow, sessions, repo, cfg.ClientURL, logger)
	platformHandler := handler.NewPlatformHandler(sessions, igClient, ytClient, recorder, logger)
	insightsHandler := handler.NewInsightsHandler(sessions, igClient, ytClient, runner, repo, cacheClient, recorder, logger)
	exportHandler := handler.NewExportHandler(repo, cacheClient, logger)
	billingHandler := handler.NewBillingHandler(billingSvc, logger)

	// Setup router
	r := setupRouter(routerDeps{
		base:     h,
		health:   healthHandler,
		metrics:  metricsHandler,
		auth:     authHandler,
		platform: platformHandler,
		insights: insightsHandler,
		export:   exportHandler,
		billing:  billingHandler,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"client_url", cfg.ClientURL,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

type routerDeps struct {
	base     *handler.Handler
	health   *handler.HealthHandler
	metrics  *handler.MetricsHandler
	auth     *handler.AuthHandler
	platform *handler.PlatformHandler
	insights *handler.InsightsHandler
	export   *handler.ExportHandler
	billing  *handler.BillingHandler
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
	}))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	sessionCfg := middleware.SessionConfig{
		Logger: d.logger,
		Secure: d.cfg.IsProduction(),
	}
	r.Use(middleware.EnsureSession(sessionCfg))

	// Health endpoints
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)
	r.Get("/metrics", d.metrics.Metrics)

	// Root info endpoint
	r.Get("/", d.base.Hello)

	// OAuth connect flows
	r.Route("/auth", func(r chi.Router) {
		r.Get("/google", d.auth.GoogleLogin)
		r.Get("/google/callback", d.auth.GoogleCallback)
		r.Get("/instagram", d.auth.InstagramLogin)
		r.Get("/instagram/callback", d.auth.InstagramCallback)
		r.Get("/status", d.auth.Status)
		r.Post("/logout", d.auth.Logout)
	})

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  d.logger,
		Cache:   d.cache,
		Enabled: d.cfg.RateLimitEnabled,
		RPS:     d.cfg.RateLimitRPS,
		Burst:   d.cfg.RateLimitBurst,
	}

	// API routes
	r.Route("/api", func(r chi.Router) {
		r.Get("/instagram/account", d.platform.InstagramAccount)
		r.Get("/youtube/analytics", d.platform.YouTubeAnalytics)

		// Refresh fans out to upstream APIs, so it gets the IP limiter.
		r.With(middleware.RateLimitIP(rateLimitCfg)).Post("/insights/refresh", d.insights.Refresh)
		r.Get("/insights/latest", d.insights.Latest)

		r.Post("/export/csv", d.export.CSV)
		r.Post("/export/pdf", d.export.PDF)
		r.Post("/export/all", d.export.PDF)

		r.Post("/billing/checkout", d.billing.Checkout)
		r.Post("/billing/portal", d.billing.Portal)
	})

	// 404 and 405 handlers
	r.NotFound(d.base.NotFound)
	r.MethodNotAllowed(d.base.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
