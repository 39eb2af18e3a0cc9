package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/triagem/triage-console/internal/api/http"
	"github.com/triagem/triage-console/internal/api/http/handlers"
	"github.com/triagem/triage-console/internal/auth"
	"github.com/triagem/triage-console/internal/config"
	"github.com/triagem/triage-console/internal/events"
	"github.com/triagem/triage-console/internal/gateway"
	"github.com/triagem/triage-console/internal/observability"
	"github.com/triagem/triage-console/internal/persistence"
	"github.com/triagem/triage-console/internal/repository"
	"github.com/triagem/triage-console/internal/service"
	"github.com/triagem/triage-console/internal/worker"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, zap.String("service", cfg.App.Name), zap.String("env", cfg.App.Env))
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	metrics := observability.NewMetrics()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if pg.Enabled() && cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.Pool, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	client := gateway.NewClient(cfg.Gateway, logger, metrics)
	dispatcher := events.NewInMemoryDispatcher()

	audit := service.NewAuditService(dispatcher, repository.NewAuditRepository(pg.Pool), logger)
	audit.RegisterHandlers()

	sender := service.NewFeedbackSender(client, dispatcher, logger, cfg.Gateway.Timeout())
	sessions := service.NewSessionStore(service.SessionDependencies{
		Analyzer:   client,
		Sender:     sender,
		Dispatcher: dispatcher,
		Logger:     logger,
	})
	dashboard := service.NewDashboardService(client, dispatcher, logger, service.DashboardOptions{
		HistoryPageSize: cfg.Dashboard.HistoryPageSize,
		PeriodChoices:   cfg.Dashboard.PeriodChoices,
	})

	var cache service.Cache
	if redis.Enabled() {
		cache = redis
	}
	catalog := service.NewCatalogService(client, cache, cfg.Cache.CatalogTTL(), logger)
	integration := service.NewIntegrationService(client, logger)
	preferences := service.NewPreferenceService(repository.NewPreferenceRepository(pg.Pool), logger)

	tokens := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes)
	authService := service.NewAuthService(cfg.Auth, tokens, logger)
	authMiddleware := auth.NewAuthMiddleware(tokens, cfg.Auth.Enabled, cfg.Auth.OperatorUsername)

	scheduler := worker.NewScheduler(logger, cfg.Gateway.Timeout())
	jobs := worker.ConsoleJobs(cfg.Scheduler, worker.JobDependencies{
		Sessions:       sessions,
		SessionMaxIdle: cfg.Session.MaxIdle(),
		Catalog:        catalog,
		Integration:    integration,
		Logger:         logger,
	})
	if err := worker.Schedule(scheduler, jobs); err != nil {
		logger.Fatal("failed to schedule jobs", zap.Error(err))
	}
	scheduler.Start()

	app := fiber.New(fiber.Config{AppName: cfg.App.Name})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())
	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis, integration),
		Auth:           handlers.NewAuthHandler(authService),
		Sessions:       handlers.NewSessionsHandler(sessions),
		Dashboard:      handlers.NewDashboardHandler(dashboard, cfg.Dashboard.DefaultPeriodDays),
		Catalog:        handlers.NewCatalogHandler(catalog),
		Integration:    handlers.NewIntegrationHandler(integration),
		Preferences:    handlers.NewPreferencesHandler(preferences),
		Admin:          handlers.NewAdminHandler(metrics, audit),
		AuthMiddleware: authMiddleware,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shutdownCancel()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Warn("http shutdown", zap.Error(err))
	}
	if err := scheduler.Stop(shutdownCtx); err != nil {
		logger.Warn("scheduler shutdown", zap.Error(err))
	}
	sender.Wait()
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
