package router

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/eskwela-dev/eskwela-go-api/internal/config"
	"github.com/eskwela-dev/eskwela-go-api/internal/handler"
	"github.com/eskwela-dev/eskwela-go-api/internal/middleware"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	ActivityHandler    *handler.ActivityHandler
	QuizHandler        *handler.QuizHandler
	SubmissionHandler  *handler.SubmissionHandler
	StatusHandler      *handler.StatusHandler
	GradeImportHandler *handler.GradeImportHandler
	AuditHandler       *handler.AuditHandler
	JWTMiddleware      fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	// Common v1 group for health & headers
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

	teacherOnly := middleware.RequireRole(models.RoleTeacher)

	// Activities (CRUD, class assignment, view tracking, derived status)
	if deps.ActivityHandler != nil {
		activities := app.Group("/api/v1/activities", jwtMiddleware)
		deps.ActivityHandler.Register(activities)

		if deps.StatusHandler != nil {
			deps.StatusHandler.RegisterActivityRoutes(activities)
		}

		if deps.QuizHandler != nil {
			quizzes := app.Group("/api/v1/quizzes", jwtMiddleware,
				middleware.RateLimit("quiz", 30, time.Minute))
			deps.QuizHandler.Register(quizzes)
		}
	}

	// Assignment submissions
	if deps.SubmissionHandler != nil {
		submissions := app.Group("/api/v1/submissions", jwtMiddleware)
		deps.SubmissionHandler.Register(submissions)
	}

	// Student progress
	if deps.StatusHandler != nil {
		students := app.Group("/api/v1/students", jwtMiddleware)
		deps.StatusHandler.RegisterStudentRoutes(students)

		// Class rollups are teacher territory
		classes := app.Group("/api/v1/classes", jwtMiddleware, teacherOnly)
		deps.StatusHandler.RegisterClassRoutes(classes)
	}

	// Spreadsheet grade reconciliation is teacher territory
	if deps.GradeImportHandler != nil {
		grades := app.Group("/api/v1/grades", jwtMiddleware, teacherOnly,
			middleware.RateLimit("grades", 20, time.Minute))
		deps.GradeImportHandler.Register(grades)
	}

	if deps.AuditHandler != nil {
		audit := app.Group("/api/v1/audit", jwtMiddleware, teacherOnly)
		deps.AuditHandler.Register(audit)
	}
}
