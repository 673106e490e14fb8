package http

import (
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/head-marketing/backend/internal/config"
	"github.com/head-marketing/backend/internal/http/handlers"
	"github.com/head-marketing/backend/internal/middleware"
)

func SetupRouter(
	app *fiber.App,
	cfg *config.Config,
	log *zap.Logger,
	rdb *redis.Client,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	wizardHandler *handlers.WizardHandler,
	campaignHandler *handlers.CampaignHandler,
	uploadHandler *handlers.UploadHandler,
	wsHub *handlers.WSHub,
) {
	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))
	app.Use(middleware.RequestIDMiddleware())
	app.Use(middleware.LoggerMiddleware(log))

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Uploaded assets
	app.Static("/uploads", cfg.UploadDir)

	api := app.Group("/api/v1")

	// Rate-limited public endpoints
	api.Use(middleware.RateLimitMiddleware(rdb, 100, time.Minute))

	// Auth (public)
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/verify", authHandler.VerifyEmail)
	api.Post("/auth/resend-code", authHandler.ResendCode)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/auth/forgot-password", authHandler.ForgotPassword)
	api.Post("/auth/reset-password", authHandler.ResetPassword)
	api.Post("/auth/google", authHandler.GoogleAuth)

	// Meta (public, no auth required)
	metaHandler := handlers.NewMetaHandler()
	api.Get("/meta/strategies", metaHandler.GetStrategies)
	api.Get("/meta/wizard-options", metaHandler.GetWizardOptions)

	// Protected endpoints
	protected := api.Group("", middleware.AuthMiddleware(cfg, log))

	// User
	protected.Get("/me", userHandler.GetMe)
	protected.Post("/me/ping", userHandler.Ping)

	// Wizard
	protected.Get("/wizard", wizardHandler.GetState)
	protected.Patch("/wizard", wizardHandler.Patch)
	protected.Delete("/wizard", wizardHandler.Discard)
	protected.Post("/wizard/analyze", wizardHandler.Analyze)
	protected.Post("/wizard/analyze/cancel", wizardHandler.CancelAnalysis)
	protected.Put("/wizard/strategies", wizardHandler.SelectStrategies)
	protected.Post("/wizard/advance", wizardHandler.Advance)
	protected.Post("/wizard/selling-points", wizardHandler.AddSellingPoint)
	protected.Put("/wizard/selling-points/:index", wizardHandler.UpdateSellingPoint)
	protected.Delete("/wizard/selling-points/:index", wizardHandler.RemoveSellingPoint)
	protected.Post("/wizard/audiences", wizardHandler.AddAudience)
	protected.Put("/wizard/audiences/:index", wizardHandler.UpdateAudience)
	protected.Delete("/wizard/audiences/:index", wizardHandler.RemoveAudience)
	protected.Post("/wizard/guidelines", wizardHandler.AddGuideline)
	protected.Put("/wizard/guidelines/:index", wizardHandler.UpdateGuideline)
	protected.Delete("/wizard/guidelines/:index", wizardHandler.RemoveGuideline)
	protected.Post("/wizard/toggles", wizardHandler.Toggle)
	protected.Post("/wizard/photos", wizardHandler.AddPhoto)
	protected.Delete("/wizard/photos/:index", wizardHandler.RemovePhoto)
	protected.Post("/wizard/submit", wizardHandler.Submit)

	// Uploads
	protected.Post("/uploads/photo", uploadHandler.UploadPhoto)
	protected.Post("/uploads/logo", uploadHandler.UploadLogo)

	// Campaigns
	protected.Get("/campaigns", campaignHandler.ListCampaigns)
	protected.Get("/campaigns/:id", campaignHandler.GetCampaign)
	protected.Post("/campaigns/:id/status", campaignHandler.Transition)
	protected.Delete("/campaigns/:id", campaignHandler.DeleteCampaign)
	protected.Get("/campaigns/:id/dashboard", campaignHandler.GetDashboard)

	// WebSocket
	app.Use("/ws", handlers.WSUpgradeMiddleware())
	app.Get("/ws", websocket.New(wsHub.HandleWS))
}
