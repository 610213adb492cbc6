package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2025XRRPKOREA/api-server/internal/adapters/ledger/xrpl"
	"github.com/2025XRRPKOREA/api-server/internal/adapters/pricefeed"
	portsevents "github.com/2025XRRPKOREA/api-server/internal/core/ports/events"
	"github.com/2025XRRPKOREA/api-server/internal/core/services"
	"github.com/2025XRRPKOREA/api-server/internal/handlers"
	"github.com/2025XRRPKOREA/api-server/internal/middleware"
	"github.com/2025XRRPKOREA/api-server/internal/platform/config"
	"github.com/2025XRRPKOREA/api-server/internal/platform/events"
	"github.com/2025XRRPKOREA/api-server/internal/repositories/database/pgsql"
	"github.com/2025XRRPKOREA/api-server/pkg/database"
	"github.com/2025XRRPKOREA/api-server/pkg/metrics"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// @title XRPL Swap API
// @version 1.0
// @description Pricing and execution service for XRP and issued-token swaps on the XRP Ledger.

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

// @security BearerAuth
func main() {
	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(context.Background(), cfg.DatabaseURL)
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer dbPool.Close()
	logger.Info("Database connection pool established.")

	if err := runMigrations(logger, cfg.DatabaseURL); err != nil {
		logger.Error("Failed to run migrations", slog.String("error", err.Error()))
		os.Exit(1)
	}

	collector := metrics.NewCollector()

	ledgerClient := xrpl.NewClient(xrpl.Config{
		RPCURL:     cfg.XRPLRPCURL,
		FaucetURL:  cfg.XRPLFaucetURL,
		Timeout:    cfg.XRPLTimeout,
		MaxRetries: cfg.XRPLMaxRetries,
		RateLimit:  cfg.XRPLRateLimit,
		RateBurst:  cfg.XRPLRateBurst,
	}, collector)

	var publisher portsevents.Publisher
	if cfg.RabbitURL == "" {
		logger.Info("RabbitMQ not configured, swap events will not be published")
		publisher = events.NewNoopPublisher()
	} else {
		publisher, err = events.NewRabbitPublisher(cfg.RabbitURL, cfg.RabbitExchange)
		if err != nil {
			logger.Error("Failed to connect to RabbitMQ", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Connected to RabbitMQ", slog.String("exchange", cfg.RabbitExchange))
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	svc := services.NewServiceContainer(cfg, repos, ledgerClient, publisher, collector)

	// Background rate refresher. The registry keeps serving the last stored
	// rate when the feed is down or not configured.
	pollerCtx, stopPoller := context.WithCancel(context.Background())
	if cfg.PriceFeedURL == "" {
		logger.Info("Price feed not configured, rates are admin-managed only")
	} else {
		feed := pricefeed.NewClient(pricefeed.Config{
			URL:          cfg.PriceFeedURL,
			TokenURL:     cfg.PriceFeedTokenURL,
			ClientID:     cfg.PriceFeedClientID,
			ClientSecret: cfg.PriceFeedClientSecret,
		})
		poller := pricefeed.NewPoller(feed, svc.Rate, pricefeed.PollerConfig{
			Interval:   cfg.PriceFeedInterval,
			BaseAsset:  cfg.BaseAsset,
			QuoteAsset: cfg.QuoteAsset,
			Spread:     cfg.PriceFeedSpread,
		}, logger)
		go poller.Run(pollerCtx)
	}

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (logging, recovery, metrics)
	r.Use(middleware.StructuredLoggingMiddleware(logger), gin.Recovery())
	r.Use(middleware.MetricsMiddleware(collector))

	corsCfg := cors.DefaultConfig()
	corsCfg.AllowAllOrigins = true
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization")
	r.Use(cors.New(corsCfg))

	if err := r.SetTrustedProxies(nil); err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	handlers.RegisterRoutes(r, cfg, svc, collector)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logger.Info("Shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", slog.String("error", err.Error()))
	}
	stopPoller()
	if err := publisher.Close(); err != nil {
		logger.Error("Failed to close event publisher", slog.String("error", err.Error()))
	}
	logger.Info("Application shutdown complete")
}

// runMigrations applies all pending "up" migrations before the server takes
// traffic. It opens its own database/sql connection because migrate cannot
// drive a pgx pool directly.
func runMigrations(logger *slog.Logger, databaseURL string) error {
	logger.Info("Running database migrations...")
	migrationDB, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return err
	}
	if err := migrationDB.Ping(); err != nil {
		migrationDB.Close()
		return err
	}

	driver, err := postgres.WithInstance(migrationDB, &postgres.Config{})
	if err != nil {
		migrationDB.Close()
		return err
	}

	m, err := migrate.NewWithDatabaseInstance("file://migrations", "postgres", driver)
	if err != nil {
		migrationDB.Close()
		return err
	}

	upErr := m.Up()
	sourceErr, dbErr := m.Close()
	if sourceErr != nil {
		return sourceErr
	}
	if dbErr != nil {
		return dbErr
	}
	if upErr != nil && !errors.Is(upErr, migrate.ErrNoChange) {
		return upErr
	}

	if errors.Is(upErr, migrate.ErrNoChange) {
		logger.Info("No new migrations to apply.")
	} else {
		logger.Info("Database migrations applied successfully.")
	}
	return nil
}
