// Package main is the entrypoint for the ReWear web server.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rewear/rewear/internal/auth"
	"github.com/rewear/rewear/internal/config"
	"github.com/rewear/rewear/internal/handler"
	"github.com/rewear/rewear/internal/metrics"
	"github.com/rewear/rewear/internal/middleware"
	"github.com/rewear/rewear/internal/repository"
	"github.com/rewear/rewear/internal/secrets"
	"github.com/rewear/rewear/internal/server"
	"github.com/rewear/rewear/internal/service"
	"github.com/rewear/rewear/internal/storage"
	"github.com/rewear/rewear/internal/view"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// The database password lives in the secret store and must be fetched before anything binds.
	secretStore, err := secrets.New(ctx, cfg.AWSRegion)
	if err != nil {
		logger.Error("failed to create secrets client", "error", err)
		os.Exit(1)
	}
	dbPassword, err := secretStore.DatabasePassword(ctx, cfg.SecretName)
	if err != nil {
		logger.Error("failed to load secrets", "secret_name", cfg.SecretName, "error", err)
		os.Exit(1)
	}

	databaseURL := cfg.DatabaseURL(dbPassword)
	repo, err := repository.New(ctx, databaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to database",
			slog.String("error", sanitizeError(err, databaseURL, dbPassword)),
			slog.String("database_url", redactURL(databaseURL)),
		)
		os.Exit(1)
	}
	if err := repo.Migrate(ctx); err != nil {
		logger.Error("failed to run migrations", slog.String("error", sanitizeError(err, databaseURL, dbPassword)))
		repo.Close()
		os.Exit(1)
	}
	logger.Info("connected to database", slog.String("database_url", redactURL(databaseURL)))

	var (
		recorder metrics.Recorder = metrics.NewNoop()
		prom     *metrics.Prometheus
	)
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	images, err := storage.New(ctx, storage.Options{
		Region:    cfg.AWSRegion,
		Bucket:    cfg.S3Bucket,
		Endpoint:  cfg.S3Endpoint,
		AccessKey: cfg.S3AccessKey,
		SecretKey: cfg.S3SecretKey,
		Recorder:  recorder,
	}, logger)
	if err != nil {
		logger.Error("failed to create storage client", "error", err)
		repo.Close()
		os.Exit(1)
	}

	views, err := view.New()
	if err != nil {
		logger.Error("failed to parse templates", "error", err)
		repo.Close()
		os.Exit(1)
	}

	sessions, err := auth.NewSessionManager(cfg.SessionKey, cfg.IsProduction())
	if err != nil {
		logger.Error("failed to create session manager", "error", err)
		repo.Close()
		os.Exit(1)
	}

	web := handler.NewWeb(
		service.NewAccountService(repo, logger, recorder),
		service.NewListingService(repo, images, logger, recorder),
		sessions,
		views,
		logger,
	)
	healthHandler := handler.NewHealthHandler(repo, images)

	r := setupRouter(web, healthHandler, prom, cfg, logger)

	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)
	srv.OnShutdown("database", func(context.Context) error {
		return repo.Close()
	})

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"bucket", images.Bucket(),
		"metrics_enabled", cfg.MetricsEnabled,
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
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
// prom may be nil when metrics are disabled.
func setupRouter(
	web *handler.Web,
	healthHandler *handler.HealthHandler,
	prom *metrics.Prometheus,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	securityCfg := middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}
	if cfg.S3Endpoint != "" {
		securityCfg.ImageSources = append(securityCfg.ImageSources, cfg.S3Endpoint)
	}

	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(securityCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	if prom != nil {
		r.Use(prom.Instrument)
	}

	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	if prom != nil {
		r.Method(http.MethodGet, "/metrics", prom.Handler())
	}

	web.Register(r)

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

// sanitizeError removes connection strings and raw secrets from an error message.
func sanitizeError(err error, values ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range values {
		if secret == "" {
			continue
		}
		replacement := "[redacted]"
		if strings.Contains(secret, "://") {
			replacement = redactURL(secret)
		}
		msg = strings.ReplaceAll(msg, secret, replacement)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
