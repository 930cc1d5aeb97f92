package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/placement-cell/forum-api/internal/config"
	"github.com/placement-cell/forum-api/internal/handler"
	"github.com/placement-cell/forum-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TopicHandler        *handler.TopicHandler
	CommentHandler      *handler.CommentHandler
	CompanyHandler      *handler.CompanyHandler
	NotificationHandler *handler.NotificationHandler
	JWTMiddleware       fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))

	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Forum: reads stay public, each handler guards its own write routes.
	forum := api.Group("/forum")
	if deps.TopicHandler != nil {
		deps.TopicHandler.Register(forum, jwtMiddleware)
	}
	if deps.CommentHandler != nil {
		deps.CommentHandler.Register(forum, jwtMiddleware)
	}
	if deps.CompanyHandler != nil {
		deps.CompanyHandler.Register(forum)
	}

	// Notifications are always private.
	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}
}
