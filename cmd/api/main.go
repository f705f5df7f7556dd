package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/addisware/procure-api/internal/config"
	"github.com/addisware/procure-api/internal/database"
	"github.com/addisware/procure-api/internal/handler"
	"github.com/addisware/procure-api/internal/middleware"
	"github.com/addisware/procure-api/internal/models"
	"github.com/addisware/procure-api/internal/repository"
	"github.com/addisware/procure-api/internal/router"
	"github.com/addisware/procure-api/internal/service"
	"github.com/addisware/procure-api/pkg/blobstore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(&models.User{}, &models.Tender{}, &models.Bid{}, &models.Evaluation{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis only backs the stats cache; the API stays up without it.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, stats caching disabled")
	}

	store, err := blobstore.New(cfg.UploadDir, logger)
	if err != nil {
		log.Fatalf("failed to initialise blob storage: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	tenderRepo := repository.NewTenderRepository(db)
	bidRepo := repository.NewBidRepository(db)
	evaluationRepo := repository.NewEvaluationRepository(db)
	statsRepo := repository.NewStatsRepository(db)

	authService := service.NewAuthService(userRepo, store, validate, cfg.JWTSecret, cfg.TokenTTL, cfg.MaxUploadMB, logger)
	tenderService := service.NewTenderService(tenderRepo, bidRepo, evaluationRepo, validate, logger)
	bidService := service.NewBidService(bidRepo, tenderRepo, store, cfg.MaxUploadMB, logger)
	evaluationService := service.NewEvaluationService(evaluationRepo, bidRepo, validate, logger)
	statsService := service.NewStatsService(statsRepo, redisClient, cfg.StatsCacheTTL, logger)
	reportService := service.NewReportService(tenderRepo, bidRepo, evaluationRepo, statsRepo, logger)

	authHandler := handler.NewAuthHandler(authService, cfg.TokenTTL, cfg.CookieSecure, logger)
	tenderHandler := handler.NewTenderHandler(tenderService, logger)
	bidHandler := handler.NewBidHandler(bidService, logger)
	evaluationHandler := handler.NewEvaluationHandler(evaluationService, logger)
	adminHandler := handler.NewAdminHandler(statsService, logger)
	reportHandler := handler.NewReportHandler(reportService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
		BodyLimit:    (cfg.MaxUploadMB + 1) * 1024 * 1024,
	})

	middleware.Register(app, middleware.Config{
		Logger:        &logger,
		AllowedOrigin: cfg.AllowedOrigin,
	})

	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		TenderHandler:     tenderHandler,
		BidHandler:        bidHandler,
		EvaluationHandler: evaluationHandler,
		AdminHandler:      adminHandler,
		ReportHandler:     reportHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret, userRepo),
		DB:                db,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
