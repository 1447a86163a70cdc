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

	"sille/app/echo-server/router"
	"sille/business/occasion"
	"sille/business/recommendation"
	"sille/internal/jobs"
	"sille/internal/middleware"
	psqlRepo "sille/internal/repository/postgres"
	redisRepo "sille/internal/repository/redis"
	"sille/internal/rest"
	"sille/pkg/config"
	"sille/pkg/database"
	redisdb "sille/pkg/database/redis"
	"sille/pkg/logger"
	"sille/pkg/metrics"
	"sille/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Sille", "version", cfg.App.Version)

	utils.InitJWT(cfg.JWT.SecretKey)
	metrics.Init()

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}

	logger.Info("Database connected successfully")

	redisClient, err := redisdb.NewRedisClient(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to redis", "error", err)
	}

	logger.Info("Redis connected successfully")

	// Init repo
	accordRepo := psqlRepo.NewAccordRepository(db)
	perfumeRepo := psqlRepo.NewPerfumeRepository(db)
	surveyRepo := psqlRepo.NewSurveyRepository(db)
	matchRepo := psqlRepo.NewMatchRepository(db)
	occasionRepo := psqlRepo.NewOccasionRepository(db)

	// Init cache
	cache := recommendation.NewTieredCache(redisRepo.NewCacheStore(redisClient))

	// Init service
	recoCfg := recommendation.DefaultConfig()
	recoCfg.Alpha = cfg.Recommend.Alpha
	recoService := recommendation.NewService(accordRepo, perfumeRepo, surveyRepo, cache, recoCfg)
	occasionService := occasion.NewService(perfumeRepo, occasionRepo, occasion.NewClassifier())

	// Init worker
	worker := jobs.NewRecommendationWorker(
		recoService,
		matchRepo,
		cfg.Recommend.QueueSize,
		cfg.Recommend.Workers,
		cfg.Recommend.MaxRetries,
		cfg.Recommend.RetryInterval,
	)
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	worker.Start(workerCtx)

	// Init handler
	surveyHandler := rest.NewSurveyHandler(surveyRepo, recoService, worker)
	recoHandler := rest.NewRecommendationHandler(matchRepo, recoService)
	occasionHandler := rest.NewOccasionHandler(occasionService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: []string{"http://localhost:3000", "http://localhost:8080"},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetupSurveyRoutes(api, surveyHandler)
	router.SetRecommendationRoutes(api, recoHandler)
	router.SetOccasionAdminRoutes(api, occasionHandler)

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

	// Shutdown server
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", "error", err)
	}

	// Drain recommendation workers
	stopWorkers()
	worker.Stop()

	logger.Info("Server stopped")
}
