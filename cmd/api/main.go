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
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/unimanage/unimanage-api/internal/auth"
	"github.com/unimanage/unimanage-api/internal/config"
	"github.com/unimanage/unimanage-api/internal/database"
	"github.com/unimanage/unimanage-api/internal/handler"
	"github.com/unimanage/unimanage-api/internal/jobs"
	"github.com/unimanage/unimanage-api/internal/mail"
	"github.com/unimanage/unimanage-api/internal/middleware"
	"github.com/unimanage/unimanage-api/internal/models"
	"github.com/unimanage/unimanage-api/internal/repository"
	"github.com/unimanage/unimanage-api/internal/router"
	"github.com/unimanage/unimanage-api/internal/scheduler"
	"github.com/unimanage/unimanage-api/internal/service"
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

	if err := db.AutoMigrate(&models.User{}, &models.Supervisor{}, &models.Project{}, &models.Comment{}, &models.ReminderSetting{}); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(cfg.RedisURL)
		if err != nil {
			log.Fatalf("failed to connect to redis: %v", err)
		}
		defer redisClient.Close()
	}

	var natsConn *nats.Conn
	if cfg.NATSURL != "" {
		natsConn, err = nats.Connect(cfg.NATSURL)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	}

	var mailer mail.Mailer
	if cfg.SendgridAPIKey != "" {
		mailer = mail.NewSendgridMailer(cfg.SendgridAPIKey, cfg.MailFromName, cfg.MailFromAddress, logger)
	} else {
		mailer = mail.NewConsoleMailer(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	supervisorRepo := repository.NewSupervisorRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	commentRepo := repository.NewCommentRepository(db)
	reminderRepo := repository.NewReminderSettingRepository(db)

	issuer := auth.NewIssuer(cfg.JWTSecret, cfg.JWTRefreshSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	blacklist := auth.NewBlacklist(redisClient)

	welcomeDispatcher := jobs.NewWelcomeEmailDispatcher(mailer, jobs.DefaultRetryPolicy(), logger)
	welcomeQueue := jobs.NewWelcomeEmailQueue(natsConn, welcomeDispatcher, logger)

	authService := service.NewAuthService(userRepo, supervisorRepo, issuer, blacklist, validate, logger)
	userService := service.NewUserService(userRepo, welcomeQueue, validate, logger)
	projectService := service.NewProjectService(projectRepo, supervisorRepo, userRepo, validate, logger)
	commentService := service.NewCommentService(commentRepo, projectRepo, validate, logger)
	reminderService := service.NewReminderService(reminderRepo, userRepo, mailer, validate, logger)

	authHandler := handler.NewAuthHandler(authService, logger)
	userHandler := handler.NewUserHandler(userService, logger)
	projectHandler := handler.NewProjectHandler(projectService, logger)
	commentHandler := handler.NewCommentHandler(commentService, logger)
	reminderHandler := handler.NewReminderHandler(reminderService, userService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:     authHandler,
		UserHandler:     userHandler,
		ProjectHandler:  projectHandler,
		CommentHandler:  commentHandler,
		ReminderHandler: reminderHandler,
		JWTMiddleware:   middleware.JWTProtected(issuer),
	})

	jobCtx, cancelJobs := context.WithCancel(context.Background())
	defer cancelJobs()

	if err := welcomeQueue.StartWorker(jobCtx); err != nil {
		log.Fatalf("failed to start welcome email worker: %v", err)
	}

	reminderScheduler := scheduler.New(reminderService, cfg.ReminderInterval, logger)
	go reminderScheduler.Run(jobCtx)

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app, cancelJobs)
}

func waitForShutdown(app *fiber.App, cancelJobs context.CancelFunc) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()
	cancelJobs()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
