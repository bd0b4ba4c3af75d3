package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/Prateekyadav17/ElectricHelp/internal/api/http"
	"github.com/Prateekyadav17/ElectricHelp/internal/api/http/handlers"
	"github.com/Prateekyadav17/ElectricHelp/internal/auth"
	"github.com/Prateekyadav17/ElectricHelp/internal/config"
	"github.com/Prateekyadav17/ElectricHelp/internal/events"
	"github.com/Prateekyadav17/ElectricHelp/internal/mail"
	"github.com/Prateekyadav17/ElectricHelp/internal/observability"
	"github.com/Prateekyadav17/ElectricHelp/internal/persistence"
	"github.com/Prateekyadav17/ElectricHelp/internal/repository"
	"github.com/Prateekyadav17/ElectricHelp/internal/service"
	"github.com/Prateekyadav17/ElectricHelp/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(cfg.Redis, logger)
	defer redis.Close()

	pool := pg.PoolHandle()
	accountRepo := repository.NewAccountRepository(pool)
	complaintRepo := repository.NewComplaintRepository(pool)

	mailer := mail.NewMailer(cfg.Mail, logger)
	if !mailer.Configured() {
		logger.Warn("mail transport not configured; reset tokens will be echoed to callers")
	}

	dispatcher := events.NewInMemoryDispatcher()
	authService := service.NewAuthService(cfg.Auth, accountRepo, mailer, logger)
	complaintService := service.NewComplaintService(complaintRepo, dispatcher)
	directoryService := service.NewDirectoryService(cfg.Auth, accountRepo, complaintRepo)
	notificationService := service.NewNotificationService(dispatcher, logger)
	worker.StartNotificationWorker(notificationService)

	authMiddleware := auth.NewAuthMiddleware(authService.TokenManager())
	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout(), cfg.App.FrontOrigins)
	app.Static("/uploads", cfg.App.UploadDir)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Complaints:     handlers.NewComplaintsHandler(complaintService),
		Users:          handlers.NewUsersHandler(directoryService),
		AuthMiddleware: authMiddleware,
		AuthRateLimit:  httptransport.NewAuthRateLimiter(redis.Client, logger, cfg.RateLimit.AuthPerMinute),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
