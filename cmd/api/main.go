package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"erp-backend/config"
	"erp-backend/internal/access"
	"erp-backend/internal/middleware"
	"erp-backend/internal/notify"
	"erp-backend/internal/repository"
	"erp-backend/internal/routes"
	"erp-backend/internal/storage"
	"erp-backend/internal/telemetry"
	"erp-backend/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

func newLogger(cfg config.Config) *zap.Logger {
	zcfg := zap.NewProductionConfig()
	if cfg.IsDevelopment() {
		zcfg = zap.NewDevelopmentConfig()
	}
	if lvl, err := zap.ParseAtomicLevel(cfg.LogLevel); err == nil {
		zcfg.Level = lvl
	}
	log, err := zcfg.Build()
	if err != nil {
		return zap.NewExample()
	}
	return log
}

func main() {
	// 1. Load configuration
	envFound := config.LoadEnvFile()
	cfg := config.Load()
	log := newLogger(cfg)
	defer func() { _ = log.Sync() }()
	if !envFound {
		log.Warn(".env file not found, using system environment variables")
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is required")
	}

	// 2. Connect to the database
	db, err := config.ConnectDB(cfg)
	if err != nil {
		log.Fatal("database connection failed", zap.Error(err))
	}
	log.Info("database connected", zap.String("driver", cfg.DBDriver))

	shutdownTracing := telemetry.Setup(cfg.OTELServiceName, log)

	// 3. Wire repositories and workflows
	store := repository.NewStore(db)
	resolver := access.NewResolver(store.Profiles, store.Departments)
	files := storage.NewLocalStore(cfg.UploadDir, cfg.SignedURLSecret, cfg.PublicBaseURL)

	deps := routes.Deps{
		JWTSecret:      cfg.JWTSecret,
		Resolver:       resolver,
		Files:          files,
		Auth:           usecase.NewAuthUsecase(store, cfg.JWTSecret, cfg.JWTTTL()),
		Profiles:       usecase.NewProfileUsecase(store, resolver),
		Leave:          usecase.NewLeaveUsecase(store, resolver),
		HelpDesk:       usecase.NewHelpDeskUsecase(store, resolver),
		Correspondence: usecase.NewCorrespondenceUsecase(store, resolver, files),
		Notifications:  usecase.NewNotificationUsecase(store),
	}

	app := fiber.New(fiber.Config{
		AppName:      "erp-backend",
		BodyLimit:    20 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(log),
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(logger.New())

	routes.SetupAll(app, deps)

	// 4. Start the outbox worker
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var mailer notify.Mailer
	if cfg.SMTP.Host != "" {
		mailer = notify.NewSMTPMailer(notify.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			User:     cfg.SMTP.User,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
	} else {
		log.Warn("SMTP_HOST not set, outgoing mail will only be logged")
		mailer = notify.NewLogMailer(log)
	}
	worker := notify.NewWorker(store, mailer, log.Named("outbox"), notify.Config{
		BatchSize:   cfg.Outbox.BatchSize,
		MaxAttempts: cfg.Outbox.MaxAttempts,
	})
	go notify.Start(ctx, cfg.Outbox.PollInterval, worker)

	// 5. Serve until interrupted
	go func() {
		log.Info("server listening", zap.String("port", cfg.Port))
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error("server shutdown failed", zap.Error(err))
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		log.Error("tracer shutdown failed", zap.Error(err))
	}
}
