package main

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

	"github.com/garrettladley/passbridge/internal/client/smartpasses"
	"github.com/garrettladley/passbridge/internal/config"
	"github.com/garrettladley/passbridge/internal/metrics"
	"github.com/garrettladley/passbridge/internal/oauth"
	xredis "github.com/garrettladley/passbridge/internal/redis"
	"github.com/garrettladley/passbridge/internal/server"
	"github.com/garrettladley/passbridge/internal/server/handler"
	"github.com/garrettladley/passbridge/internal/service/action"
	"github.com/garrettladley/passbridge/internal/service/auth"
	"github.com/garrettladley/passbridge/internal/service/tenant"
	"github.com/garrettladley/passbridge/internal/service/webhook"
	"github.com/garrettladley/passbridge/internal/storage"
	"github.com/garrettladley/passbridge/internal/telemetry"
	"github.com/garrettladley/passbridge/internal/version"
	"github.com/garrettladley/passbridge/internal/xhttp"
	"github.com/garrettladley/passbridge/internal/xslog"
	"github.com/joho/godotenv"
)

const shutdownTimeout = 30 * time.Second

func main() {
	_ = godotenv.Load()

	logger := xslog.NewLoggerFromEnv(os.Stdout)
	slog.SetDefault(logger)

	ctx := context.Background()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", xslog.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Read()
	if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}

	shutdownTracing, err := telemetry.Init(cfg.Tracing.Enabled, os.Stdout, version.Get(), logger)
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	defer func() {
		if err := shutdownTracing(context.WithoutCancel(ctx)); err != nil {
			logger.ErrorContext(ctx, "failed to flush traces", xslog.Error(err))
		}
	}()

	store, err := storage.OpenCredentialStore(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to open credential store: %w", err)
	}
	defer closeLogged(ctx, logger, "credential store", store.Close)

	limiter, err := initRateLimiter(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize rate limiter: %w", err)
	}
	defer closeLogged(ctx, logger, "rate limiter", limiter.Close)

	if cfg.GHL.SharedSecret == "" {
		logger.WarnContext(ctx, "GHL_SHARED_SECRET is not set; every webhook will be rejected")
	}

	m := metrics.New()

	// Services
	tenantService := tenant.NewResolver(store)
	gateway := smartpasses.New(
		smartpasses.WithBaseURL(cfg.SmartPasses.BaseURL),
		smartpasses.WithTimeout(cfg.SmartPasses.Timeout),
		smartpasses.WithObserver(m),
	)
	actionService := action.NewActions(tenantService, gateway)
	webhookService := webhook.NewProcessor(cfg.GHL.SharedSecret, webhook.NewContactDispatcher(), m)
	authService := auth.NewOAuth(oauth.NewConfig(cfg.GHL), xhttp.NewHTTPClient())

	handlers := server.Handlers{
		Action:   handler.NewAction(actionService),
		Webhook:  handler.NewWebhook(webhookService),
		Settings: handler.NewSettings(tenantService),
		Auth:     handler.NewAuth(authService),
		Health: handler.NewHealth(map[string]handler.Pinger{
			"credential_store": store,
			"rate_limiter":     limiter,
		}),
		Metrics: m.Handler(),
	}

	httpServer := &http.Server{
		Addr: ":" + cfg.Port,
		Handler: server.NewHandler(server.Deps{
			Logger:      logger,
			Handlers:    handlers,
			RateLimiter: limiter,
			TrustProxy:  cfg.RateLimit.TrustProxy,
			Observer:    m,
		}),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		// provider calls carry no deadline of their own
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	serveErr := make(chan error, 1)
	go func() {
		logger.InfoContext(ctx, "starting server",
			xslog.Version(),
			xslog.Port(cfg.Port),
			xslog.Driver(string(cfg.Database.Driver)),
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
	}
	logger.InfoContext(ctx, "shutdown signal received, initiating graceful shutdown")

	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.InfoContext(ctx, "server stopped")
	return nil
}

func initRateLimiter(ctx context.Context, cfg config.Config, logger *slog.Logger) (storage.RateLimiter, error) {
	if cfg.Redis.URL == "" {
		logger.InfoContext(ctx, "initializing in-memory rate limiter",
			slog.Float64("per_second", cfg.RateLimit.PerSecond),
			slog.Int("burst", cfg.RateLimit.Burst),
		)
		return storage.NewMemoryRateLimiter(cfg.RateLimit.PerSecond, cfg.RateLimit.Burst), nil
	}

	client, err := xredis.New(ctx, xredis.Config{URL: cfg.Redis.URL})
	if err != nil {
		return nil, err
	}

	// A burst-sized window refilled at PerSecond approximates the token
	// bucket used in memory.
	window := time.Duration(float64(cfg.RateLimit.Burst) / cfg.RateLimit.PerSecond * float64(time.Second))
	logger.InfoContext(ctx, "initializing Redis rate limiter",
		slog.Int("limit", cfg.RateLimit.Burst),
		slog.Duration("window", window),
	)
	return storage.NewRedisRateLimiter(storage.RedisConfig{
		Client: client,
		Limit:  cfg.RateLimit.Burst,
		Window: window,
	}), nil
}

func closeLogged(ctx context.Context, logger *slog.Logger, name string, closeFn func() error) {
	if err := closeFn(); err != nil {
		logger.ErrorContext(ctx, "failed to close "+name, xslog.Error(err))
	}
}
