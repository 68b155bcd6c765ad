package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/query-triage/internal/api/http"
	"github.com/spec-kit/query-triage/internal/api/http/handlers"
	"github.com/spec-kit/query-triage/internal/config"
	"github.com/spec-kit/query-triage/internal/events"
	"github.com/spec-kit/query-triage/internal/observability"
	"github.com/spec-kit/query-triage/internal/persistence"
	"github.com/spec-kit/query-triage/internal/repository"
	"github.com/spec-kit/query-triage/internal/service"
	"github.com/spec-kit/query-triage/internal/worker"
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
	queryRepo := repository.NewQueryRepository(pool)
	assignmentRepo := repository.NewAssignmentRepository(pool)
	statusHistoryRepo := repository.NewStatusHistoryRepository(pool)
	teamRepo := repository.NewTeamRepository(pool)
	analyticsRepo := repository.NewAnalyticsRepository(pool)

	dispatcher := events.NewInMemoryDispatcher(logger)

	queryService := service.NewQueryService(service.QueryDependencies{
		QueryRepo:         queryRepo,
		AssignmentRepo:    assignmentRepo,
		StatusHistoryRepo: statusHistoryRepo,
		TeamRepo:          teamRepo,
		Dispatcher:        dispatcher,
	})
	analyticsService := service.NewAnalyticsService(analyticsRepo, redis, logger, cfg.Analytics.CacheTTL())
	analyticsService.RegisterHandlers(dispatcher)

	notificationService := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(notificationService)

	metrics := observability.NewMetrics()

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	healthHandler := handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis)
	queriesHandler := handlers.NewQueriesHandler(queryService)
	analyticsHandler := handlers.NewAnalyticsHandler(analyticsService)

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:    healthHandler,
		Queries:   queriesHandler,
		Analytics: analyticsHandler,
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
