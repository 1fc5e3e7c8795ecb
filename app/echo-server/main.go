package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appmetrics "adFatigue/app/echo-server/metrics"
	"adFatigue/app/echo-server/router"
	"adFatigue/business/fatigue"
	"adFatigue/business/snapshot"
	"adFatigue/internal/middleware"
	psqlRepo "adFatigue/internal/repository/postgres"
	"adFatigue/internal/rest"
	"adFatigue/pkg/cache"
	"adFatigue/pkg/config"
	"adFatigue/pkg/database"
	"adFatigue/pkg/logger"
	"adFatigue/pkg/metrics"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Ad Fatigue API", "version", cfg.App.Version)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", "error", err)
	}

	logger.Info("Database connected successfully")

	// Scoring constants, optionally from file
	scoringCfg, err := fatigue.LoadConfigFile(cfg.Scoring.ConfigFile)
	if err != nil {
		logger.Fatal("Failed to load scoring config", "error", err)
	}

	cfgCache, err := cache.New(cfg.Scoring.ConfigCacheMaxItems, time.Duration(cfg.Scoring.ConfigCacheTTLSecond)*time.Second)
	if err != nil {
		logger.Fatal("Failed to init config cache", "error", err)
	}
	defer cfgCache.Close()

	metrics.Init()
	appmetrics.Init()

	// Init repo
	snapshotRepo := psqlRepo.NewSnapshotRepository(db)
	reportRepo := psqlRepo.NewFatigueReportRepository(db)
	fatigueCfgRepo := psqlRepo.NewFatigueConfigRepository(db)

	// Init service
	fatigueService := fatigue.NewFatigueService(snapshotRepo, reportRepo, fatigueCfgRepo, cfgCache, scoringCfg)
	snapshotService := snapshot.NewSnapshotService(snapshotRepo)

	// Init handler
	timeout := time.Duration(cfg.Server.RequestTimeout) * time.Second
	fatigueHandler := rest.NewFatigueHandler(fatigueService, timeout)
	snapshotHandler := rest.NewSnapshotHandler(snapshotService, timeout)
	fatigueAdminHandler := rest.NewFatigueAdminHandler(fatigueService, timeout)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.TraceMiddleware())
	e.Use(middleware.RequestMetrics())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, middleware.HeaderRequestID},
	}))

	// Setup routes
	router.SetupMetricsRoute(e)

	api := e.Group("/api/v1", echomiddleware.RateLimiter(
		echomiddleware.NewRateLimiterMemoryStore(rate.Limit(cfg.Server.RateLimitRPS)),
	))
	router.SetupFatigueRoutes(api, fatigueHandler)
	router.SetupSnapshotRoutes(api, snapshotHandler)
	router.SetupFatigueAdminRoutes(api, fatigueAdminHandler)

	// Scheduled recompute
	scheduler, err := startRecompute(fatigueService, cfg.Jobs)
	if err != nil {
		logger.Fatal("Failed to schedule recompute", "error", err)
	}

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", "error", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// wait for a running recompute to finish
	<-scheduler.Stop().Done()

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	logger.Info("Server stopped")
}
