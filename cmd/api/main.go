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
	"github.com/rs/zerolog"

	"github.com/classdesk/classwork-api/internal/config"
	"github.com/classdesk/classwork-api/internal/database"
	"github.com/classdesk/classwork-api/internal/handler"
	"github.com/classdesk/classwork-api/internal/middleware"
	"github.com/classdesk/classwork-api/internal/models"
	"github.com/classdesk/classwork-api/internal/repository"
	"github.com/classdesk/classwork-api/internal/router"
	"github.com/classdesk/classwork-api/internal/service"
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

	if err := db.AutoMigrate(&models.User{}, &models.Assignment{}, &models.Submission{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	redisClient, err := database.ConnectRedis(cfg.RedisURL)
	if err != nil {
		log.Fatalf("failed to connect to redis: %v", err)
	}
	defer redisClient.Close()

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.TokenTTL, logger)
	assignmentService := service.NewAssignmentService(assignmentRepo, submissionRepo, validate, redisClient, logger)
	studentService := service.NewStudentService(assignmentRepo, submissionRepo, validate, redisClient, cfg.PublishedCacheTTL, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	assignmentHandler := handler.NewAssignmentHandler(assignmentService, validate, logger)
	studentHandler := handler.NewStudentHandler(studentService, validate, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		AssignmentHandler: assignmentHandler,
		StudentHandler:    studentHandler,
		JWTMiddleware:     middleware.JWTProtected(cfg.JWTSecret),
		SubmitLimiter:     middleware.RateLimit("submit", cfg.SubmitRateLimit, cfg.SubmitRateWindow),
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
