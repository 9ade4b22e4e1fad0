package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/classdesk/classwork-api/internal/config"
	"github.com/classdesk/classwork-api/internal/handler"
	"github.com/classdesk/classwork-api/internal/middleware"
	"github.com/classdesk/classwork-api/internal/models"
	"github.com/classdesk/classwork-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler       *handler.AuthHandler
	AssignmentHandler *handler.AssignmentHandler
	StudentHandler    *handler.StudentHandler
	JWTMiddleware     fiber.Handler
	SubmitLimiter     fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api", func(c *fiber.Ctx) error {
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

	if deps.AuthHandler != nil {
		auth := api.Group("/auth")
		deps.AuthHandler.Register(auth)
		auth.Get("/me", jwtMiddleware, deps.AuthHandler.Me)
	}

	if deps.AssignmentHandler != nil {
		assignments := api.Group("/assignments", jwtMiddleware, middleware.RequireRole(models.RoleTeacher))
		deps.AssignmentHandler.Register(assignments)
	}

	if deps.StudentHandler != nil {
		student := api.Group("/student", jwtMiddleware, middleware.RequireRole(models.RoleStudent))
		deps.StudentHandler.Register(student, deps.SubmitLimiter)
	}
}
