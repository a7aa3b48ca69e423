package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/magicplay247/agent-panel/internal/api/http"
	"github.com/magicplay247/agent-panel/internal/api/http/handlers"
	"github.com/magicplay247/agent-panel/internal/auth"
	"github.com/magicplay247/agent-panel/internal/config"
	"github.com/magicplay247/agent-panel/internal/events"
	"github.com/magicplay247/agent-panel/internal/observability"
	"github.com/magicplay247/agent-panel/internal/persistence"
	"github.com/magicplay247/agent-panel/internal/repository"
	"github.com/magicplay247/agent-panel/internal/service"
	"github.com/magicplay247/agent-panel/internal/worker"
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
	agentRepo := repository.NewAgentRepository(pool, cfg.Agents.OrgPrefix)
	noticeRepo := repository.NewNoticeRepository(pool)
	reportRepo := repository.NewReportRepository(pool)
	idempotencyStore := repository.NewIdempotencyStore(redis.Client)
	revocationStore := repository.NewRevocationStore(redis.Client)

	dispatcher := events.NewInMemoryDispatcher()
	worker.StartAuditWorker(service.NewAuditService(logger, dispatcher))

	agentService := service.NewAgentService(service.AgentDependencies{
		AgentRepo:        agentRepo,
		IdempotencyStore: idempotencyStore,
		Dispatcher:       dispatcher,
		IdempotencyTTL:   cfg.Agents.IdempotencyTTL(),
	})
	noticeService := service.NewNoticeService(noticeRepo, dispatcher)
	reportService := service.NewReportService(reportRepo, agentRepo, dispatcher)

	verifier := auth.NewStaticVerifier(cfg.Auth.AdminEmail, cfg.Auth.AdminPasswordHash)
	tokenMgr := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTL())
	authService := service.NewAuthService(verifier, tokenMgr, revocationStore)
	authMiddleware := auth.NewAuthMiddleware(tokenMgr, revocationStore)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, pg, redis),
		Auth:           handlers.NewAuthHandler(authService),
		Agents:         handlers.NewAgentsHandler(agentService),
		Notices:        handlers.NewNoticesHandler(noticeService),
		Reports:        handlers.NewReportsHandler(reportService),
		AuthMiddleware: authMiddleware,
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
