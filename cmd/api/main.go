package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"

	"github.com/eskwela-dev/eskwela-go-api/internal/config"
	"github.com/eskwela-dev/eskwela-go-api/internal/database"
	"github.com/eskwela-dev/eskwela-go-api/internal/handler"
	"github.com/eskwela-dev/eskwela-go-api/internal/middleware"
	"github.com/eskwela-dev/eskwela-go-api/internal/models"
	"github.com/eskwela-dev/eskwela-go-api/internal/repository"
	"github.com/eskwela-dev/eskwela-go-api/internal/router"
	"github.com/eskwela-dev/eskwela-go-api/internal/service"
	cloud "github.com/eskwela-dev/eskwela-go-api/pkg/cloudinary"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := database.ConnectPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}

	if err := db.AutoMigrate(
		&models.User{},
		&models.Enrollment{},
		&models.Activity{},
		&models.ClassAssignment{},
		&models.Question{},
		&models.ActivityView{},
		&models.Submission{},
		&models.QuizResponse{},
		&models.GradingBatch{},
		&models.GradingBatchEntry{},
		&models.AuditLog{},
	); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL, nats.Name(cfg.AppName))
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Drain()
	}

	uploader, err := cloud.New(cloud.Config{
		CloudName: cfg.CloudinaryCloudName,
		APIKey:    cfg.CloudinaryAPIKey,
		APISecret: cfg.CloudinaryAPISecret,
		Folder:    cfg.CloudinaryUploadFolder,
	}, logger)
	if err != nil {
		log.Fatalf("failed to create cloudinary client: %v", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	activityRepo := repository.NewActivityRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	responseRepo := repository.NewQuizResponseRepository(db)
	rosterRepo := repository.NewRosterRepository(db)
	batchRepo := repository.NewGradingBatchRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	auditService := service.NewAuditService(auditRepo, logger)
	activityService := service.NewActivityService(activityRepo, validate, logger)
	quizService := service.NewQuizService(activityRepo, responseRepo, validate, natsConn, logger)
	submissionService := service.NewSubmissionService(submissionRepo, activityRepo, validate, uploader, auditService, logger)
	statusService := service.NewStatusService(activityRepo, submissionRepo, responseRepo, redisClient, cfg.ProgressCacheTTL, logger)
	gradeImportService := service.NewGradeImportService(activityRepo, submissionRepo, rosterRepo, batchRepo, validate, auditService, natsConn, logger)

	activityHandler := handler.NewActivityHandler(activityService, logger)
	quizHandler := handler.NewQuizHandler(quizService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	statusHandler := handler.NewStatusHandler(statusService, logger)
	gradeImportHandler := handler.NewGradeImportHandler(gradeImportService, logger)
	auditHandler := handler.NewAuditHandler(auditService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		ActivityHandler:    activityHandler,
		QuizHandler:        quizHandler,
		SubmissionHandler:  submissionHandler,
		StatusHandler:      statusHandler,
		GradeImportHandler: gradeImportHandler,
		AuditHandler:       auditHandler,
		JWTMiddleware:      middleware.JWTProtected(cfg.JWTSecret),
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
