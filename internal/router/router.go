package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/tutorbook-api/internal/config"
	"github.com/noah-isme/tutorbook-api/internal/handler"
	"github.com/noah-isme/tutorbook-api/internal/middleware"
	"github.com/noah-isme/tutorbook-api/internal/models"
	"github.com/noah-isme/tutorbook-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	AuthHandler     *handler.AuthHandler
	StudentHandler  *handler.StudentHandler
	LessonHandler   *handler.LessonHandler
	AwardHandler    *handler.AwardHandler
	ParentHandler   *handler.ParentHandler
	ActivityHandler *handler.ActivityHandler
	// DebugHandler is mounted only when set.
	DebugHandler *handler.DebugHandler
	Database     handler.Pinger
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	app.Get("/metrics", observability.MetricsHandler())

	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg.AppName, cfg.AppEnv, deps.Database))

	// Auth routes sit ahead of token parsing so a stale bearer header cannot block a fresh login.
	if deps.AuthHandler != nil {
		loginLimiter := middleware.RateLimit("login", cfg.LoginRateLimit, time.Minute)
		deps.AuthHandler.Register(api.Group("/auth"), loginLimiter)
	}

	api.Use(middleware.Authenticate(cfg.JWTSecret))

	// Student, lesson and award routes mix parent reads with teacher writes;
	// the services apply the access rule per call.
	if deps.StudentHandler != nil {
		deps.StudentHandler.Register(api)
	}
	if deps.LessonHandler != nil {
		deps.LessonHandler.Register(api)
	}
	if deps.AwardHandler != nil {
		deps.AwardHandler.Register(api)
	}

	if deps.ParentHandler != nil {
		deps.ParentHandler.Register(api.Group("/parents", middleware.RequireRole(models.RoleTeacher)))
	}
	if deps.ActivityHandler != nil {
		deps.ActivityHandler.Register(api.Group("/activity", middleware.RequireRole(models.RoleTeacher, models.RoleParent)))
	}
	if deps.DebugHandler != nil {
		deps.DebugHandler.Register(api.Group("/debug"))
	}
}
