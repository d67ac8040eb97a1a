package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // database/sql driver for migrations
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/vigia-ops/alvo-engine/pkg/config"
	"github.com/vigia-ops/alvo-engine/pkg/database"
	"github.com/vigia-ops/alvo-engine/pkg/geo"
	"github.com/vigia-ops/alvo-engine/pkg/handlers"
	"github.com/vigia-ops/alvo-engine/pkg/logging"
	"github.com/vigia-ops/alvo-engine/pkg/middleware"
	"github.com/vigia-ops/alvo-engine/pkg/repositories"
	"github.com/vigia-ops/alvo-engine/pkg/services"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := logging.New(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck // stderr sync errors are not actionable

	logger.Info("Configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("port", cfg.Port),
		zap.String("database", fmt.Sprintf("%s@%s:%d/%s", cfg.Database.User, cfg.Database.Host, cfg.Database.Port, cfg.Database.Database)),
		zap.Bool("redis_cache", cfg.Redis.Host != ""),
	)

	ctx := context.Background()

	// Connect to PostgreSQL and fail fast when the store is unreachable
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
	})
	if err != nil {
		logger.Fatal("Failed to connect to database",
			zap.String("error", logging.SanitizeError(err)))
	}
	defer db.Close()

	// Run migrations through database/sql (required by golang-migrate)
	sqlDB, err := sql.Open("pgx", cfg.Database.ConnectionString())
	if err != nil {
		logger.Fatal("Failed to open sql connection for migrations",
			zap.String("error", logging.SanitizeError(err)))
	}
	if err := database.RunMigrations(sqlDB, cfg.MigrationsPath, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	if err := sqlDB.Close(); err != nil {
		logger.Warn("Failed to close migration connection", zap.Error(err))
	}

	// Optional Redis cache for geography lookups
	redisClient, err := database.NewRedisClient(&cfg.Redis)
	if err != nil {
		logger.Fatal("Failed to connect to Redis",
			zap.String("error", logging.SanitizeError(err)))
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	// Repositories and services
	documentoRepo := repositories.NewDocumentoRepository(db)
	alvoRepo := repositories.NewAlvoRepository(db, documentoRepo)
	alvoService := services.NewAlvoService(alvoRepo, documentoRepo, logger)

	geoClient := geo.NewClient(cfg.Geo.BaseURL, redisClient,
		time.Duration(cfg.Geo.CacheTTLMinutes)*time.Minute, logger)

	mux := http.NewServeMux()

	// Register handlers
	handlers.NewHealthHandler(cfg, logger).RegisterRoutes(mux)
	handlers.NewAlvosHandler(alvoService, logger).RegisterRoutes(mux)
	handlers.NewDocumentosHandler(alvoService, logger).RegisterRoutes(mux)
	handlers.NewQRCodeHandler(alvoService, logger).RegisterRoutes(mux)
	handlers.NewGeoHandler(geoClient, logger).RegisterRoutes(mux)
	mux.Handle("GET /metrics", promhttp.Handler())

	// Serve the built frontend
	mux.Handle("/", http.FileServer(http.Dir(cfg.UIDir)))

	metrics := middleware.NewMetrics()
	var handler http.Handler = mux
	handler = middleware.BodyLimit(cfg.MaxBodyBytes)(handler)
	handler = metrics.Instrument()(handler)
	handler = middleware.RequestLogger(logger)(handler)
	handler = middleware.CORS(cfg.CORSAllowedOrigins)(handler)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("Starting alvo-engine", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("Server failed", zap.Error(err))
	}
}
