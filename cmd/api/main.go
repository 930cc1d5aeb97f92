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
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/placement-cell/forum-api/internal/config"
	"github.com/placement-cell/forum-api/internal/database"
	"github.com/placement-cell/forum-api/internal/handler"
	"github.com/placement-cell/forum-api/internal/middleware"
	"github.com/placement-cell/forum-api/internal/models"
	"github.com/placement-cell/forum-api/internal/repository"
	"github.com/placement-cell/forum-api/internal/router"
	"github.com/placement-cell/forum-api/internal/service"
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

	if err := db.AutoMigrate(&models.Topic{}, &models.TopicLike{}, &models.Comment{}, &models.Notification{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	// Redis and NATS only degrade features when absent: the company rollup
	// falls back to direct queries and notifications stay node-local.
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	} else {
		logger.Warn().Msg("redis url not configured, caching and pub/sub fanout disabled")
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, cross-node notification fanout disabled")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	topicRepo := repository.NewTopicRepository(db)
	engagementRepo := repository.NewEngagementRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.EventChannelBase, natsConn, validate, logger)
	topicService := service.NewTopicService(topicRepo, engagementRepo, validate, logger)
	engagementService := service.NewEngagementService(engagementRepo, topicRepo, notificationService, logger)
	commentService := service.NewCommentService(commentRepo, topicRepo, notificationService, validate, logger)
	companyService := service.NewCompanyService(topicRepo, redisClient, cfg.CompanyCacheTTL, logger)

	likeLimiter := middleware.RateLimit("topic-like", cfg.LikeRateLimitMax, cfg.LikeRateLimitWindow)

	topicHandler := handler.NewTopicHandler(topicService, engagementService, logger, likeLimiter)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	companyHandler := handler.NewCompanyHandler(companyService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, cfg.SSEKeepAlive)

	fanoutCtx, stopFanout := context.WithCancel(context.Background())
	defer stopFanout()
	notificationService.Start(fanoutCtx)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TopicHandler:        topicHandler,
		CommentHandler:      commentHandler,
		CompanyHandler:      companyHandler,
		NotificationHandler: notificationHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, stopFanout)
}

func waitForShutdown(app *fiber.App, stopFanout context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	stopFanout()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
