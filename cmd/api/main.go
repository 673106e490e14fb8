package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/analyzer"
	"github.com/head-marketing/backend/internal/auth"
	"github.com/head-marketing/backend/internal/config"
	"github.com/head-marketing/backend/internal/db"
	"github.com/head-marketing/backend/internal/events"
	apphttp "github.com/head-marketing/backend/internal/http"
	"github.com/head-marketing/backend/internal/http/handlers"
	"github.com/head-marketing/backend/internal/mailer"
	"github.com/head-marketing/backend/internal/repositories"
	"github.com/head-marketing/backend/internal/services"
	"github.com/head-marketing/backend/internal/storage"
)

func main() {
	log, _ := zap.NewProduction()
	defer log.Sync()

	cfg := config.Load()
	cfg.Validate(log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Database
	pool, err := db.NewPostgresPool(ctx, cfg.PostgresDSN, log)
	if err != nil {
		log.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer pool.Close()

	// Run migrations
	if err := db.RunMigrations(ctx, pool, log); err != nil {
		log.Fatal("failed to run migrations", zap.Error(err))
	}

	// Redis
	rdb, err := db.NewRedisClient(ctx, cfg.RedisURL, log)
	if err != nil {
		log.Fatal("failed to connect to redis", zap.Error(err))
	}
	defer rdb.Close()

	// Repositories
	userRepo := repositories.NewUserRepo(pool)
	campaignRepo := repositories.NewCampaignRepo(pool)
	influencerRepo := repositories.NewInfluencerRepo(pool)
	auditRepo := repositories.NewAuditRepo(pool)

	// Events
	publisher := events.NewRedisPublisher(rdb, log)
	subscriber := events.NewRedisSubscriber(rdb, log)

	// Uploads
	uploadStore, err := storage.NewDiskStore(cfg.UploadDir, cfg.UploadBaseURL, log)
	if err != nil {
		log.Fatal("failed to init upload store", zap.Error(err))
	}

	// Analysis pipeline
	fetcher := analyzer.NewFetcher(cfg.SiteFetchTimeoutMS, cfg.SiteFetchMaxRetries, log)
	deepseek := analyzer.NewDeepSeekClient(cfg.DeepSeekBaseURL, cfg.DeepSeekAPIKey,
		time.Duration(cfg.AITimeoutSeconds)*time.Second, log)
	analysisService := analyzer.NewService(fetcher, deepseek, log)

	// Services
	googleVerifier := auth.NewGoogleVerifier(cfg.GoogleClientID)
	userService := services.NewUserService(userRepo, rdb, mailer.NewLogMailer(log), googleVerifier, cfg, log)
	campaignService := services.NewCampaignService(campaignRepo, auditRepo, publisher, log)
	dashboardService := services.NewDashboardService(campaignRepo, influencerRepo, log)
	wizardService := services.NewWizardService(
		campaignRepo, auditRepo, publisher,
		services.NewRedisSnapshotStore(rdb), analysisService,
		cfg.StrategyRevealDelay, cfg.WizardSessionTTL, log,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userService, log)
	userHandler := handlers.NewUserHandler(userRepo, log)
	wizardHandler := handlers.NewWizardHandler(wizardService, log)
	campaignHandler := handlers.NewCampaignHandler(campaignService, dashboardService, log)
	uploadHandler := handlers.NewUploadHandler(uploadStore, log)
	wsHub := handlers.NewWSHub(cfg, subscriber, log)

	// Start WS hub
	wsHub.Start(ctx)

	// Fiber app
	app := fiber.New(fiber.Config{
		BodyLimit: storage.MaxUploadSize + 1024*1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{"error": err.Error()})
		},
	})

	apphttp.SetupRouter(app, cfg, log, rdb, authHandler, userHandler, wizardHandler, campaignHandler, uploadHandler, wsHub)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")
		cancel()
		_ = app.Shutdown()
	}()

	addr := fmt.Sprintf(":%s", cfg.APIPort)
	log.Info("starting API server", zap.String("addr", addr))
	if err := app.Listen(addr); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
