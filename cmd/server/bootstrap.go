package main

import (
	"os"

	"github.com/errwatch/errwatch/internal/config"
	"github.com/errwatch/errwatch/internal/handlers"
	"github.com/errwatch/errwatch/internal/models"
	"github.com/errwatch/errwatch/internal/services"
	"github.com/errwatch/errwatch/internal/utils"
	"github.com/errwatch/errwatch/pkg/logger"
)

// appServices holds all initialized services and handlers needed by the application.
type appServices struct {
	cfg           *config.Config
	notifier      *services.NotificationService
	taskQueue     services.TaskQueue
	worker        *services.Worker
	muteSweeper   *services.MuteSweeper
	authHandler   *handlers.AuthHandler
	ingestHandler *handlers.IngestHandler
}

// bootstrap initializes all application dependencies: database, services, schedulers.
func bootstrap(cfg *config.Config) *appServices {
	utils.SetJWTSecret(cfg.JWT.Secret)

	if err := models.InitDB(&cfg.Database); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	// Notification pipeline: SMS gateway behind the dispatcher, fed by the
	// task queue (Redis-backed when enabled, in-process otherwise).
	gateway := services.NewSMSGateway(&cfg.SMS)
	notifier := services.NewNotificationService(models.GetDB(), gateway, cfg.Cooldown())

	taskQueue := services.InitTaskQueue(cfg)
	if syncQueue, ok := taskQueue.(*services.SyncQueue); ok {
		syncQueue.SetProcessor(notifier.Dispatch)
	}

	var worker *services.Worker
	if cfg.Redis.Enabled {
		worker = services.InitWorker(&cfg.Redis)
		if worker != nil {
			worker.SetProcessor(notifier.Dispatch)
			worker.Start()
		}
	}

	muteSweeper := services.NewMuteSweeper(models.GetDB())
	muteSweeper.Start()

	authHandler := handlers.NewAuthHandler(models.GetDB(), cfg)
	authService := services.NewAuthService(models.GetDB(), &cfg.JWT)
	if err := authService.EnsureDefaultUser(os.Getenv("ADMIN_USERNAME"), os.Getenv("ADMIN_PASSWORD")); err != nil {
		logger.Warn().Err(err).Msg("Failed to seed default user")
	}

	return &appServices{
		cfg:           cfg,
		notifier:      notifier,
		taskQueue:     taskQueue,
		worker:        worker,
		muteSweeper:   muteSweeper,
		authHandler:   authHandler,
		ingestHandler: handlers.NewIngestHandler(models.GetDB(), taskQueue, services.GetEventsHub()),
	}
}

// shutdown gracefully stops all services.
func (s *appServices) shutdown() {
	s.muteSweeper.Stop()
	logger.Info().Msg("Schedulers stopped")

	if s.worker != nil {
		s.worker.Stop()
	}
	if s.taskQueue != nil {
		s.taskQueue.Close()
	}
}
