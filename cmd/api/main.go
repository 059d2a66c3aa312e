// Package main is the entrypoint for the modelgate dashboard API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/modelgate/modelgate/internal/auth"
	"github.com/modelgate/modelgate/internal/cache"
	"github.com/modelgate/modelgate/internal/config"
	"github.com/modelgate/modelgate/internal/handler"
	"github.com/modelgate/modelgate/internal/metrics"
	"github.com/modelgate/modelgate/internal/middleware"
	"github.com/modelgate/modelgate/internal/repository"
	"github.com/modelgate/modelgate/internal/server"
	"github.com/modelgate/modelgate/internal/service"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

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

	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, cfg.DatabaseURL)))
		os.Exit(1)
	}
	logger.Info("migrations applied")

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

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.SessionTTL)

	metricsRecorder := metrics.NewNoop()
	authService := service.NewAuthService(repo, tokenIssuer, metricsRecorder)
	apiKeyService := service.NewAPIKeyService(repo, metricsRecorder)
	ledgerService := service.NewLedgerService(repo, metricsRecorder)
	catalogService := service.NewCatalogService(repo, cacheClient, metricsRecorder)

	cookieCfg := handler.CookieConfig{
		Secure: cfg.IsProduction(),
		TTL:    cfg.SessionTTL,
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(logger, authService, cookieCfg)
	apiKeyHandler := handler.NewAPIKeyHandler(logger, apiKeyService)
	paymentsHandler := handler.NewPaymentsHandler(logger, ledgerService)
	modelsHandler := handler.NewModelsHandler(logger, catalogService)

	r := setupRouter(h, healthHandler, authHandler, apiKeyHandler, paymentsHandler, modelsHandler, tokenIssuer, cacheClient, cfg, logger)

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

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
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

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	authHandler *handler.AuthHandler,
	apiKeyHandler *handler.APIKeyHandler,
	paymentsHandler *handler.PaymentsHandler,
	modelsHandler *handler.ModelsHandler,
	tokenIssuer *auth.TokenIssuer,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)

	// Root info endpoint
	r.Get("/", h.Hello)

	sessionRequired := middleware.Session(logger, tokenIssuer)

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:        logger,
		Cache:         cacheClient,
		Enabled:       cfg.RateLimitAuthEnabled,
		RatePerMinute: cfg.RateLimitAuthRPM,
		Burst:         cfg.RateLimitAuthBurst,
	}

	r.Route("/api/v1", func(r chi.Router) {
		// Credential endpoints are rate limited per client IP.
		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/sign-up", authHandler.SignUp)
			r.With(middleware.RateLimitAuth(rateLimitCfg)).Post("/sign-in", authHandler.SignIn)
			r.With(sessionRequired).Post("/sign-out", authHandler.SignOut)
			r.With(sessionRequired).Get("/profile", authHandler.Profile)
		})

		// API key management (session required)
		r.Route("/api-keys", func(r chi.Router) {
			r.Use(sessionRequired)
			r.Get("/", apiKeyHandler.List)
			r.Post("/", apiKeyHandler.Create)
			r.Put("/", apiKeyHandler.Update)
			r.Delete("/{id}", apiKeyHandler.Delete)
		})

		// Credit ledger (session required)
		r.Route("/payments", func(r chi.Router) {
			r.Use(sessionRequired)
			r.Get("/balance", paymentsHandler.Balance)
			r.Get("/transactions", paymentsHandler.Transactions)
			r.Post("/onramp", paymentsHandler.Onramp)
		})

		// Read-only catalog (session required)
		r.Route("/models", func(r chi.Router) {
			r.Use(sessionRequired)
			r.Get("/", modelsHandler.Models)
			r.Get("/providers", modelsHandler.Providers)
			r.Get("/mappings", modelsHandler.Mappings)
		})
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

// redactURL strips credentials from a connection URL before logging.
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

// sanitizeError removes secrets from an error message before logging.
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
