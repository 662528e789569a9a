// AngelaMos | 2026
// main.go

package main

import (
	"context"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/carterperez-dev/templates/storefront/internal/admin"
	"github.com/carterperez-dev/templates/storefront/internal/auth"
	"github.com/carterperez-dev/templates/storefront/internal/config"
	"github.com/carterperez-dev/templates/storefront/internal/core"
	"github.com/carterperez-dev/templates/storefront/internal/health"
	"github.com/carterperez-dev/templates/storefront/internal/identity"
	"github.com/carterperez-dev/templates/storefront/internal/item"
	"github.com/carterperez-dev/templates/storefront/internal/media"
	"github.com/carterperez-dev/templates/storefront/internal/metrics"
	"github.com/carterperez-dev/templates/storefront/internal/middleware"
	"github.com/carterperez-dev/templates/storefront/internal/product"
	"github.com/carterperez-dev/templates/storefront/internal/server"
	"github.com/carterperez-dev/templates/storefront/internal/user"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	if err := run(*configPath); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

//nolint:funlen // bootstrap code is inherently verbose
func run(configPath string) error {
	ctx, stop := signal.NotifyContext(
		context.Background(),
		syscall.SIGINT,
		syscall.SIGTERM,
	)
	defer stop()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger := core.NewLogger(os.Stdout, cfg.Log)
	slog.SetDefault(logger)

	logger.Info("starting application",
		"name", cfg.App.Name,
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
	)

	var telemetry *core.Telemetry
	if cfg.Otel.Enabled {
		tel, telErr := core.NewTelemetry(ctx, cfg.Otel, cfg.App)
		if telErr != nil {
			logger.Warn("failed to initialize telemetry", "error", telErr)
		} else {
			telemetry = tel
			logger.Info("OpenTelemetry tracer initialized",
				"endpoint", cfg.Otel.Endpoint,
			)
		}
	}

	if cfg.Database.AutoMigrate {
		if err := core.RunMigrations(cfg.Database.URL, logger); err != nil {
			return err
		}
	}

	db, err := core.NewDatabase(ctx, cfg.Database)
	if err != nil {
		return err
	}
	logger.Info("database connected",
		"max_open_conns", cfg.Database.MaxOpenConns,
		"max_idle_conns", cfg.Database.MaxIdleConns,
	)

	redis, err := core.NewRedis(ctx, cfg.Redis)
	if err != nil {
		return err
	}
	logger.Info("redis connected",
		"pool_size", cfg.Redis.PoolSize,
	)

	var recorder metrics.Recorder = metrics.Nop{}
	registry := prometheus.NewRegistry()
	if cfg.Metrics.Enabled {
		metrics.RegisterRuntime(registry)
		recorder = metrics.NewCollector(registry, cfg.Metrics.Namespace)
	}

	gateway, err := identity.NewGateway(ctx, cfg.Cognito, recorder, logger)
	if err != nil {
		return err
	}
	logger.Info("cognito gateway initialized",
		"region", cfg.Cognito.Region,
		"user_pool_id", cfg.Cognito.UserPoolID,
	)

	mediaSvc, err := media.NewService(cfg.Cloudinary, cfg.Upload, recorder, logger)
	if err != nil {
		return err
	}

	userRepo := user.NewRepository(db.DB)
	userSvc := user.NewService(userRepo)
	userHandler := user.NewHandler(userSvc)

	authSvc := auth.NewService(
		gateway,
		userSvc,
		auth.NewRedisBlacklist(redis.Client, redis.Prefix()),
		logger,
	)
	authHandler := auth.NewHandler(authSvc)

	productSvc := product.NewService(
		product.NewRepository(db.DB),
		db,
		mediaSvc,
		logger,
	)
	productHandler := product.NewHandler(productSvc, cfg.Upload.MaxBytes)

	itemSvc := item.NewService(item.NewRepository(db.DB), db, recorder, logger)
	itemHandler := item.NewHandler(itemSvc)

	mediaHandler := media.NewHandler(mediaSvc, cfg.Upload.MaxBytes)

	healthHandler := health.NewHandler(
		health.Check{Name: "database", Checker: db},
		health.Check{Name: "redis", Checker: redis},
	)

	adminHandler := admin.NewHandler(admin.HandlerConfig{
		Counts:     admin.NewStatsRepository(db.DB),
		DBStats:    db.Stats,
		RedisStats: redis.PoolStats,
		DBPing:     db.Ping,
		RedisPing:  redis.Ping,
	})

	srv := server.New(server.Config{
		ServerConfig:  cfg.Server,
		HealthHandler: healthHandler,
		Logger:        logger,
		ServiceName:   cfg.App.Name,
	})

	router := srv.Router()

	router.Use(middleware.RequestID)
	router.Use(chimw.RealIP)
	router.Use(middleware.Recoverer(logger))
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Metrics(recorder))

	limit := cfg.RateLimit
	router.Use(middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:      "global",
		KeyPrefix: redis.Prefix(),
		Limit:     middleware.Every(limit.Requests, limit.Burst, limit.Window),
		FailOpen:  limit.FailOpen,
		Metrics:   recorder,
		Logger:    logger,
	}).Handler)
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	router.Use(middleware.CORS(cfg.CORS))

	healthHandler.RegisterRoutes(router)

	if cfg.Metrics.Enabled {
		router.Handle(cfg.Metrics.Path, metrics.Handler(registry))
	}

	writeLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:      "writes",
		KeyPrefix: redis.Prefix(),
		Limit:     middleware.Every(limit.WriteRequests, limit.Burst, limit.Window),
		KeyFunc:   middleware.KeyByPrincipal,
		Match:     middleware.Writes,
		FailOpen:  limit.FailOpen,
		Metrics:   recorder,
		Logger:    logger,
	}).Handler

	credentialLimiter := middleware.NewRateLimiter(redis.Client, middleware.RateLimitConfig{
		Name:      "auth",
		KeyPrefix: redis.Prefix(),
		Limit:     middleware.Every(limit.AuthRequests, limit.AuthRequests, limit.Window),
		FailOpen:  limit.FailOpen,
		Metrics:   recorder,
		Logger:    logger,
	}).Handler

	verify := middleware.Authenticator(authSvc)
	authenticator := func(next http.Handler) http.Handler {
		return verify(writeLimiter(next))
	}
	adminOnly := middleware.RequireAdmin

	authHandler.RegisterRoutes(router, authenticator, credentialLimiter)
	userHandler.RegisterRoutes(router, authenticator)
	productHandler.RegisterRoutes(router, authenticator, adminOnly)
	productHandler.RegisterAdminRoutes(router, authenticator, adminOnly)
	itemHandler.RegisterRoutes(router, authenticator)
	mediaHandler.RegisterRoutes(router, authenticator)
	adminHandler.RegisterRoutes(router, authenticator, adminOnly)

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		logger.Info("shutdown signal received")
	}

	drainDelay := cfg.Server.DrainDelay

	shutdownCtx, cancel := context.WithTimeout(
		context.Background(),
		cfg.Server.ShutdownTimeout+drainDelay+5*time.Second,
	)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx, drainDelay); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			logger.Error("telemetry shutdown error", "error", err)
		}
	}

	if err := redis.Close(); err != nil {
		logger.Error("redis close error", "error", err)
	}

	if err := db.Close(); err != nil {
		logger.Error("database close error", "error", err)
	}

	logger.Info("application stopped")
	return nil
}
