// Package main is the entrypoint for the Parley API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/parley/parley/internal/config"
	"github.com/parley/parley/internal/handler"
	"github.com/parley/parley/internal/metrics"
	"github.com/parley/parley/internal/middleware"
	"github.com/parley/parley/internal/repository"
	"github.com/parley/parley/internal/server"
	"github.com/parley/parley/internal/service"
	"github.com/parley/parley/internal/ws"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Connect to the document store. Connectivity failure at startup is
	// fatal; per-request failures later only degrade those requests.
	repo, err := repository.New(ctx, cfg.MongoURL, cfg.MongoDatabase)
	if err != nil {
		logger.Error(
			"failed to connect to document store",
			slog.String("error", sanitizeError(err, cfg.MongoURL)),
			slog.String("mongo_url", redactURL(cfg.MongoURL)),
		)
		os.Exit(1)
	}
	defer repo.Close(ctx)
	logger.Info("connected to document store", "database", cfg.MongoDatabase)

	if err := repo.EnsureIndexes(ctx); err != nil {
		logger.Error("failed to ensure indexes", "error", err)
		os.Exit(1)
	}

	// Metrics
	metricsRecorder := metrics.NewInMemory()

	// Notification channel
	hub := ws.NewHub(logger, metricsRecorder)
	go hub.Run()

	// Services
	identityService := service.NewIdentityService(repo, hub, metricsRecorder)
	messagingService := service.NewMessagingService(repo, hub, metricsRecorder)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(repo)
	metricsHandler := handler.NewMetricsHandler(metricsRecorder)
	authHandler := handler.NewAuthHandler(identityService, logger)
	userHandler := handler.NewUserHandler(identityService, logger)
	chatHandler := handler.NewChatHandler(messagingService, logger)
	wsHandler := ws.NewHandler(hub, handler.NewEventRouter(messagingService), ws.HandlerConfig{
		AllowedOrigins: cfg.GetCORSAllowedOrigins(),
		SendBuffer:     cfg.WSSendBuffer,
		MaxMessageSize: cfg.WSMaxMessageSize,
	}, logger)

	r := setupRouter(h, healthHandler, metricsHandler, authHandler, userHandler, chatHandler, wsHandler, cfg, logger)

	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)
	srv.OnShutdown("ws-hub", hub.Shutdown)

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
	metricsHandler *handler.MetricsHandler,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	chatHandler *handler.ChatHandler,
	wsHandler *ws.Handler,
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

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Probes and metrics
	r.Get("/health", healthHandler.Health)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metricsz", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	// Live push channel. The upgrade request carries no body, so the
	// body size limit applies only to the JSON API.
	r.Get("/ws", wsHandler.ServeHTTP)

	// JSON API
	r.Group(func(r chi.Router) {
		r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))

		r.Post("/signup", authHandler.Signup)
		r.Post("/login", authHandler.Login)
		r.Get("/users/{id}", userHandler.List)
		r.Get("/chat/{userID}/{otherID}", chatHandler.Conversation)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

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

	return msg
}
