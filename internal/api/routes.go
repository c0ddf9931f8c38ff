package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/paradiseofgeeks/blogmirror/internal/config"
	"github.com/paradiseofgeeks/blogmirror/internal/middleware"
	"github.com/paradiseofgeeks/blogmirror/internal/store"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, st *store.Store) {
	handlers := NewHandlers(cfg, st)

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Post endpoints
	posts := api.Group("/posts")
	{
		posts.Get("", handlers.GetPosts)        // List posts with pagination
		posts.Get("/:id", handlers.GetPostByID) // Get single post with related posts
	}

	// Search and category browsing
	api.Get("/search", handlers.SearchPosts)
	api.Get("/categories", handlers.GetCategories)

	// Contact form capture
	api.Post("/contact", handlers.SubmitContact)

	// Analytics endpoints
	analytics := api.Group("/analytics")
	{
		analytics.Get("", handlers.GetAnalytics)
		analytics.Get("/summary", handlers.GetAnalyticsSummary)
		analytics.Post("/track", handlers.TrackView)
		analytics.Post("/events", handlers.TrackEvent)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
