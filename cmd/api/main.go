package main

import (
	"log"
	"os"
	"time"

	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/database"
	"github.com/funnelpulse/lead-engine-api/internal/infrastructure/lock"
	"github.com/funnelpulse/lead-engine-api/internal/interfaces/http/middleware"
	"github.com/funnelpulse/lead-engine-api/internal/interfaces/http/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️ No .env file found, using system environment variables")
	}

	// Initialize database
	db, err := database.SetupDatabase()
	if err != nil {
		log.Fatalf("❌ Error setting up database: %v", err)
	}

	locker := setupLocker()

	// Configure Fiber for better performance
	app := fiber.New(fiber.Config{
		Concurrency: 256 * 1024,
		BodyLimit:   1 * 1024 * 1024, // tracking payloads are small
		// Tracking calls must fail fast rather than hold the funnel up.
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	})

	// Setup middleware
	middleware.SetupMiddlewares(app)

	// Setup routes
	routes.SetupRoutes(app, db, locker)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("🚀 Server is running on port %s", port)
	log.Fatal(app.Listen(":" + port))
}

// setupLocker prefers Redis so the merge lock holds across instances; a
// single-node deployment without Redis falls back to an in-process lock.
func setupLocker() lock.CampaignLocker {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		log.Println("⚠️ REDIS_URL not set, merge lock is per-process only")
		return lock.NewMemoryLocker()
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Fatalf("❌ Invalid REDIS_URL: %v", err)
	}
	return lock.NewRedisLocker(redis.NewClient(opts), 5*time.Minute)
}
