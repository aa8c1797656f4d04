package middleware

import (
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func SetupMiddlewares(app *fiber.App) {
	// CORS configuration; the funnel pages post tracking events cross-origin.
	allowOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowOrigins == "" {
		allowOrigins = "http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           300, // 5 minutes
	}))
}

// RouteGroups holds the API route groups.
type RouteGroups struct {
	Public fiber.Router
	Track  fiber.Router
	Admin  fiber.Router
}

// SetupRouteGroups wires the route groups and their middlewares. Tracking is
// open (the funnel fires events for anonymous visitors); admin operations
// require a bearer token.
func SetupRouteGroups(app *fiber.App, adminAuth func(c *fiber.Ctx) error) RouteGroups {
	public := app.Group("/")

	track := app.Group("/track")

	admin := app.Group("/admin")
	admin.Use(adminAuth)

	return RouteGroups{
		Public: public,
		Track:  track,
		Admin:  admin,
	}
}
