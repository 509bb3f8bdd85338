package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/formahub/formahub-api/internal/config"
	"github.com/formahub/formahub-api/internal/handler"
	"github.com/formahub/formahub-api/internal/middleware"
	"github.com/formahub/formahub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	TrainingHandler     *handler.TrainingHandler
	TrackingHandler     *handler.TrackingHandler
	OutputHandler       *handler.OutputHandler
	SubmissionHandler   *handler.SubmissionHandler
	CreathonHandler     *handler.CreathonHandler
	NotificationHandler *handler.NotificationHandler
	ActivityHandler     *handler.ActivityHandler
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

	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	if deps.TrainingHandler != nil {
		trainings := api.Group("/trainings", jwtMiddleware)
		deps.TrainingHandler.Register(trainings)

		if deps.OutputHandler != nil {
			deps.OutputHandler.RegisterTrainingRoutes(trainings)
		}
	}

	if deps.TrackingHandler != nil {
		tracking := api.Group("/trainingsTracking", jwtMiddleware)
		deps.TrackingHandler.Register(tracking)
	}

	if deps.OutputHandler != nil {
		outputs := api.Group("/outputs", jwtMiddleware)
		deps.OutputHandler.Register(outputs)

		if deps.SubmissionHandler != nil {
			deps.SubmissionHandler.RegisterSubmit(outputs)
		}
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	if deps.CreathonHandler != nil {
		creathons := api.Group("/creathons", jwtMiddleware,
			middleware.RequireRole(middleware.RoleMentor, middleware.RoleCoordinator))
		deps.CreathonHandler.Register(creathons)
	}

	if deps.NotificationHandler != nil {
		notifications := api.Group("/notifications", jwtMiddleware)
		deps.NotificationHandler.Register(notifications)
	}

	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware,
			middleware.RequireRole(middleware.RoleCoordinator))
		deps.ActivityHandler.Register(activity)
	}
}
