package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/unimanage/unimanage-api/internal/config"
	"github.com/unimanage/unimanage-api/internal/handler"
	"github.com/unimanage/unimanage-api/internal/middleware"
	"github.com/unimanage/unimanage-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	UserHandler     *handler.UserHandler
	ProjectHandler  *handler.ProjectHandler
	CommentHandler  *handler.CommentHandler
	ReminderHandler *handler.ReminderHandler
	JWTMiddleware   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())
	app.Get("/api/v1/health", handler.HealthCheck(cfg))

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	// Account surface
	api := app.Group("/api", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})

	// Limiters are scoped per path so they never catch the rest of
	// the surface.
	api.Use("/signup", middleware.RateLimit("account", 20, time.Minute))
	authLimiter := middleware.RateLimit("auth", 20, time.Minute)
	api.Use("/login", authLimiter)
	api.Use("/token/refresh", authLimiter)

	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublic(api)
	}
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterAccount(api)
	}

	protected := api.Group("", jwtMiddleware)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterProtected(protected)
	}
	if deps.ReminderHandler != nil {
		deps.ReminderHandler.Register(protected)
	}

	// Project surface
	project := app.Group("/project")
	loginLimiter := middleware.RateLimit("supervisor_login", 20, time.Minute)
	project.Use("/supervisor_login", loginLimiter)
	project.Use("/api/supervisor_login", loginLimiter)
	if deps.AuthHandler != nil {
		deps.AuthHandler.RegisterProject(project)
	}

	if deps.ProjectHandler != nil {
		deps.ProjectHandler.RegisterAPI(project.Group("/api/projects", jwtMiddleware))
		deps.ProjectHandler.RegisterInteractive(project.Group("", jwtMiddleware))
	}

	if deps.CommentHandler != nil {
		deps.CommentHandler.RegisterAPI(project.Group("/api/comments", jwtMiddleware))
		deps.CommentHandler.RegisterProject(project.Group("", jwtMiddleware))
	}
}
