package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/tutorbook-api/internal/config"
	"github.com/noah-isme/tutorbook-api/internal/database"
	"github.com/noah-isme/tutorbook-api/internal/handler"
	"github.com/noah-isme/tutorbook-api/internal/middleware"
	"github.com/noah-isme/tutorbook-api/internal/repository"
	"github.com/noah-isme/tutorbook-api/internal/router"
	"github.com/noah-isme/tutorbook-api/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := newLogger(cfg)

	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Str("driver", cfg.DatabaseDriver).Msg("failed to connect to database")
	}
	sqlDB, err := db.DB()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to access database pool")
	}
	defer sqlDB.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), time.Minute)
	err = database.Migrate(migrateCtx, db, cfg.DatabaseDriver, logger)
	cancelMigrate()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to migrate database")
	}

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisClient, err = database.ConnectRedis(context.Background(), cfg.RedisURL)
		if err != nil {
			logger.Warn().Err(err).Msg("redis unavailable; award cache disabled")
			redisClient = nil
		} else {
			defer redisClient.Close()
		}
	}

	events := service.NewNoopPublisher()
	if cfg.NATSURL != "" {
		var conn *nats.Conn
		conn, err = database.ConnectNATS(cfg.NATSURL, cfg.AppName)
		if err != nil {
			logger.Warn().Err(err).Msg("nats unavailable; domain events disabled")
		} else {
			defer conn.Drain()
			events = service.NewNATSPublisher(conn, cfg.NATSSubjectPrefix)
		}
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	userRepo := repository.NewUserRepository(db)
	studentRepo := repository.NewStudentRepository(db)
	linkRepo := repository.NewParentChildRepository(db)
	lessonRepo := repository.NewLessonRepository(db)
	awardRepo := repository.NewAwardRepository(db)
	activityRepo := repository.NewActivityLogRepository(db)
	diagnosticsRepo := repository.NewDiagnosticsRepository(db)

	accessService := service.NewAccessService(studentRepo, linkRepo)
	activityService := service.NewActivityService(activityRepo, accessService, logger)
	authService := service.NewAuthService(userRepo, validate, cfg.JWTSecret, cfg.JWTTTL, logger)
	lessonService := service.NewLessonService(lessonRepo, accessService, validate, activityService, events, logger)
	awardService := service.NewAwardService(awardRepo, accessService, validate, redisClient, cfg.AwardCacheTTL, activityService, events, logger)
	studentService := service.NewStudentService(studentRepo, accessService, lessonService, awardService, validate, activityService, events, logger)
	parentService := service.NewParentService(userRepo, linkRepo, accessService, validate, activityService, events, logger)
	exportService := service.NewExportService(accessService, lessonService, awardService, logger)

	deps := router.Dependencies{
		AuthHandler:     handler.NewAuthHandler(authService, logger),
		StudentHandler:  handler.NewStudentHandler(studentService, exportService, logger),
		LessonHandler:   handler.NewLessonHandler(lessonService, logger),
		AwardHandler:    handler.NewAwardHandler(awardService, logger),
		ParentHandler:   handler.NewParentHandler(parentService, logger),
		ActivityHandler: handler.NewActivityHandler(activityService, logger),
		Database:        sqlDB,
	}
	if cfg.DebugEnabled {
		debugService := service.NewDebugService(diagnosticsRepo, linkRepo, cfg.DatabaseDriver, cfg.DebugEnabled, cfg.DebugToken, logger)
		deps.DebugHandler = handler.NewDebugHandler(debugService, logger)
		logger.Warn().Msg("diagnostic routes enabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger, AccessLog: !cfg.IsProduction()})
	router.Register(app, cfg, deps)

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddress()).Str("env", cfg.AppEnv).Msg("http server listening")
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	waitForShutdown(app, logger)
}

func newLogger(cfg config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	var logger zerolog.Logger
	if cfg.IsProduction() {
		logger = zerolog.New(os.Stdout)
	} else {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	return logger.Level(level).With().Timestamp().Str("service", cfg.AppName).Logger()
}

func waitForShutdown(app *fiber.App, logger zerolog.Logger) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	logger.Info().Msg("server stopped")
}
