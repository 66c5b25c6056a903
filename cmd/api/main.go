// Package main is the entrypoint for the linkcut API server.
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
	"github.com/joho/godotenv"

	"github.com/linkcut/linkcut/internal/auth"
	"github.com/linkcut/linkcut/internal/cache"
	"github.com/linkcut/linkcut/internal/config"
	"github.com/linkcut/linkcut/internal/handler"
	"github.com/linkcut/linkcut/internal/metrics"
	"github.com/linkcut/linkcut/internal/middleware"
	"github.com/linkcut/linkcut/internal/repository"
	"github.com/linkcut/linkcut/internal/server"
	"github.com/linkcut/linkcut/internal/service"
)

func main() {
	ctx := context.Background()

	// A missing .env is fine; production injects real env vars.
	_ = godotenv.Load()

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

	tokenIssuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenTTL)
	metricsRecorder := metrics.NewInMemory()

	authService := service.NewAuthService(repo, tokenIssuer, metricsRecorder)
	linkService := service.NewLinkService(repo, cacheClient, metricsRecorder, logger)
	clickService := service.NewClickService(repo, metricsRecorder, logger)
	statsService := service.NewStatsService(repo)

	healthHandler := handler.NewHealthHandler(repo, cacheClient)
	authHandler := handler.NewAuthHandler(authService, logger)
	linkHandler := handler.NewLinkHandler(linkService, cfg.BaseURL, logger)
	statsHandler := handler.NewStatsHandler(statsService, cfg.BaseURL, logger)
	adminHandler := handler.NewAdminHandler(statsService, cfg.BaseURL, logger)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	redirectHandler := handler.NewRedirectHandler(linkService, clickService, metricsRecorder, logger)

	r := setupRouter(routerDeps{
		health:   healthHandler,
		auth:     authHandler,
		link:     linkHandler,
		stats:    statsHandler,
		admin:    adminHandler,
		metrics:  metricsHandler,
		redirect: redirectHandler,
		issuer:   tokenIssuer,
		cache:    cacheClient,
		cfg:      cfg,
		logger:   logger,
	})

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
		"base_url", cfg.BaseURL,
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

type routerDeps struct {
	health   *handler.HealthHandler
	auth     *handler.AuthHandler
	link     *handler.LinkHandler
	stats    *handler.StatsHandler
	admin    *handler.AdminHandler
	metrics  *handler.MetricsHandler
	redirect *handler.RedirectHandler
	issuer   *auth.TokenIssuer
	cache    *cache.Cache
	cfg      *config.Config
	logger   *slog.Logger
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))
	r.Use(middleware.Security(middleware.SecurityConfig{
		IsDevelopment: d.cfg.IsDevelopment(),
	}))
	r.Use(middleware.MaxBodySize(d.cfg.MaxRequestBodySize))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)

	authCfg := middleware.AuthConfig{
		Logger:   d.logger,
		Verifier: d.issuer,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:          d.logger,
		Cache:           d.cache,
		RedirectEnabled: d.cfg.RateLimitRedirectEnabled,
		RedirectRPM:     d.cfg.RateLimitRedirectRPM,
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", d.auth.Register)
			r.Post("/login", d.auth.Login)
		})

		r.Route("/urls", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Post("/shorten", d.link.Shorten)
			r.Get("/my-urls", d.link.MyURLs)
			r.Get("/stats/{code}", d.stats.LinkStats)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))
			r.Use(middleware.RequireAdmin(d.logger))

			r.Get("/all-stats", d.admin.AllStats)
			r.Get("/metrics", d.metrics.Snapshot)
		})
	})

	// Public redirect with IP-based rate limiting
	r.With(middleware.RateLimitIP(rateLimitCfg)).Get("/{code}", d.redirect.Redirect)

	r.NotFound(handler.NotFound)
	r.MethodNotAllowed(handler.MethodNotAllowed)

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
