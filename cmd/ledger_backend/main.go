package main

import (
	"context"
	"log/slog"
	"os"

	rediscache "github.com/SscSPs/ledger_engine/internal/adapters/cache/redis"
	"github.com/SscSPs/ledger_engine/internal/adapters/database/pgsql"
	"github.com/SscSPs/ledger_engine/internal/adapters/fiscal/efris"
	"github.com/SscSPs/ledger_engine/internal/core/ports"
	"github.com/SscSPs/ledger_engine/internal/core/services"
	"github.com/SscSPs/ledger_engine/internal/handlers"
	"github.com/SscSPs/ledger_engine/internal/middleware"
	"github.com/SscSPs/ledger_engine/internal/platform/config"
	"github.com/SscSPs/ledger_engine/internal/platform/metrics"
	"github.com/SscSPs/ledger_engine/pkg/database"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL, cfg.EnableDBCheck)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)
	logger.Info("Database connection pool established.")

	if err := database.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, logger); err != nil {
		logger.Error("Database migrations failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	store := pgsql.NewStore(dbPool)
	repos := store.Repositories()

	if cfg.RedisURL != "" {
		client, err := rediscache.NewClient(cfg.RedisURL)
		if err != nil {
			logger.Error("Failed to configure redis", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer client.Close()
		repos.ExchangeRateRepo = rediscache.NewRateCache(repos.ExchangeRateRepo, client, cfg.RateCacheTTL, logger)
		logger.Info("Exchange rate cache enabled", slog.Duration("ttl", cfg.RateCacheTTL))
	}

	var notifier ports.FiscalNotifier = ports.NoopNotifier{}
	if cfg.EFRISURL != "" {
		notifier = efris.NewClient(efris.Config{
			URL:      cfg.EFRISURL,
			TIN:      cfg.EFRISTIN,
			DeviceNo: cfg.EFRISDeviceNo,
			Timeout:  cfg.EFRISTimeout,
		})
		logger.Info("EFRIS fiscal notifications enabled", slog.String("url", cfg.EFRISURL))
	}

	recorder := metrics.NewRecorder()
	serviceContainer := services.NewContainer(repos, notifier, services.WithMetrics(recorder))

	rateLimiter, err := middleware.NewRateLimiter(cfg.RateLimit)
	if err != nil {
		logger.Error("Invalid rate limit", slog.String("rate", cfg.RateLimit), slog.String("error", err.Error()))
		os.Exit(1)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, metrics, recovery, CORS)
	r.Use(middleware.StructuredLoggingMiddleware(logger), recorder.GinMiddleware(), gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowOrigins:  cfg.CORSAllowedOrigins,
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
	}))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, serviceContainer, recorder, rateLimiter)

	logger.Info("Server starting", slog.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Error("Server failed to run", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
