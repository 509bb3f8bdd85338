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

	"github.com/formahub/formahub-api/internal/config"
	"github.com/formahub/formahub-api/internal/database"
	"github.com/formahub/formahub-api/internal/handler"
	"github.com/formahub/formahub-api/internal/mailer"
	"github.com/formahub/formahub-api/internal/middleware"
	"github.com/formahub/formahub-api/internal/models"
	"github.com/formahub/formahub-api/internal/repository"
	"github.com/formahub/formahub-api/internal/router"
	"github.com/formahub/formahub-api/internal/service"
	cloud "github.com/formahub/formahub-api/pkg/cloudinary"
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
		&models.Training{},
		&models.Participant{},
		&models.Session{},
		&models.AttendanceRecord{},
		&models.Output{},
		&models.OutputAttachment{},
		&models.Submission{},
		&models.SubmissionAttachment{},
		&models.Comment{},
		&models.Creathon{},
		&models.CreathonMember{},
		&models.Notification{},
		&models.ActivityLog{},
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
		natsConn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			log.Fatalf("failed to connect to nats: %v", err)
		}
		defer natsConn.Close()
	} else {
		logger.Warn().Msg("nats url not configured, notification fanout limited to this node")
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

	var mail mailer.Mailer
	if cfg.SendgridAPIKey != "" {
		mail = mailer.NewSendgridMailer(cfg.SendgridAPIKey, cfg.AppName, cfg.SendgridFromEmail, logger)
	} else {
		mail = mailer.NewLogMailer(logger)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	trainingRepo := repository.NewTrainingRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	sessionRepo := repository.NewSessionRepository(db)
	outputRepo := repository.NewOutputRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	creathonRepo := repository.NewCreathonRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)

	activityService := service.NewActivityService(activityRepo, logger)
	notificationService := service.NewNotificationService(notificationRepo, redisClient, cfg.NotificationChannel, natsConn, validate, logger)
	trackingService := service.NewTrackingService(trainingRepo, participantRepo, sessionRepo, outputRepo, redisClient, cfg.TrackingCacheTTL, logger)
	trainingService := service.NewTrainingService(trainingRepo, validate, logger)
	outputService := service.NewOutputService(outputRepo, trainingRepo, validate, activityService, trackingService, logger)
	submissionService := service.NewSubmissionService(submissionRepo, outputRepo, participantRepo, validate, uploader, notificationService, activityService, trackingService, logger)
	creathonService := service.NewCreathonService(creathonRepo, mail, validate, activityService, logger)

	trainingHandler := handler.NewTrainingHandler(trainingService, logger)
	trackingHandler := handler.NewTrackingHandler(trackingService, logger)
	outputHandler := handler.NewOutputHandler(outputService, logger)
	submissionHandler := handler.NewSubmissionHandler(submissionService, logger)
	creathonHandler := handler.NewCreathonHandler(creathonService, logger)
	notificationHandler := handler.NewNotificationHandler(notificationService, logger, 30*time.Second)
	activityHandler := handler.NewActivityHandler(activityService, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		TrainingHandler:     trainingHandler,
		TrackingHandler:     trackingHandler,
		OutputHandler:       outputHandler,
		SubmissionHandler:   submissionHandler,
		CreathonHandler:     creathonHandler,
		NotificationHandler: notificationHandler,
		ActivityHandler:     activityHandler,
		JWTMiddleware:       middleware.JWTProtected(cfg.JWTSecret),
	})

	brokerCtx, stopBroker := context.WithCancel(context.Background())
	defer stopBroker()
	notificationService.Start(brokerCtx)

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
