package routes

import (
	"os"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/application/usecases"
	"github.com/funnelpulse/lead-engine-api/internal/domain/repositories"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/cache"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/lock"
	"github.com/funnelpulse/lead-engine-api/internal/interfaces/http/handlers"
	"github.com/funnelpulse/lead-engine-api/internal/interfaces/http/middleware"
	"github.com/funnelpulse/lead-engine-api/internal/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/etag"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, locker lock.CampaignLocker) {
	// Add performance middleware
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	// Add ETag support for efficient caching
	app.Use(etag.New())

	app.Use(middleware.PerformanceLogger())

	// Health check
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// Repositories
	leadRepo := repositories.NewLeadRepository(db)
	aggregateRepo := repositories.NewAggregateRepository(db)
	claimRepo := repositories.NewClaimRepository(db)

	// Use Cases
	resolver := usecases.NewLeadResolver(leadRepo)
	trackUseCase := usecases.NewTrackUseCase(leadRepo, aggregateRepo, claimRepo, resolver, utils.DefaultRetryPolicy())
	mergeUseCase := usecases.NewMergeUseCase(leadRepo, aggregateRepo, locker)

	snapshots := cache.New(time.Minute)
	statsUseCase := usecases.NewStatsUseCase(aggregateRepo, snapshots, 10*time.Second)

	// Handlers
	trackHandler := handlers.NewTrackHandler(trackUseCase)
	campaignHandler := handlers.NewCampaignHandler(statsUseCase, mergeUseCase, leadRepo)

	// Routes
	groups := middleware.SetupRouteGroups(app, middleware.JWTAuth(os.Getenv("JWT_SECRET")))

	// Tracking routes, one per funnel action
	groups.Track.Post("/visit", trackHandler.TrackVisit)
	groups.Track.Post("/booking", trackHandler.TrackBooking)
	groups.Track.Post("/login", trackHandler.TrackLogin)
	groups.Track.Post("/verification", trackHandler.TrackVerification)

	// Campaign stats
	groups.Public.Get("/campaigns/:campaign_id/stats", campaignHandler.GetCampaignStats)

	// Admin routes: lead listing and the offline repair operations
	groups.Admin.Get("/campaigns/:campaign_id/leads", campaignHandler.GetCampaignLeads)
	groups.Admin.Post("/campaigns/:campaign_id/merge", campaignHandler.MergeCampaign)
	groups.Admin.Post("/campaigns/:campaign_id/resync", campaignHandler.ResyncCampaign)
}
