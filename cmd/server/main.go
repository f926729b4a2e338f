package main

import (
	"context"
	"log"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/focusboard/api/handler"
	"github.com/fastygo/focusboard/internal/config"
	"github.com/fastygo/focusboard/internal/infrastructure/cache"
	"github.com/fastygo/focusboard/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/focusboard/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/focusboard/internal/infrastructure/redis"
	"github.com/fastygo/focusboard/internal/middleware"
	"github.com/fastygo/focusboard/internal/router"
	"github.com/fastygo/focusboard/internal/services"
	"github.com/fastygo/focusboard/internal/services/lifecycle"
	"github.com/fastygo/focusboard/pkg/httpcontext"
	"github.com/fastygo/focusboard/pkg/logger"
	"github.com/fastygo/focusboard/repository"
	"github.com/fastygo/focusboard/repository/memory"
	pgRepo "github.com/fastygo/focusboard/repository/postgres"
	redisRepo "github.com/fastygo/focusboard/repository/redis"
	"github.com/fastygo/focusboard/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:    cfg.Logger.Level,
		Encoding: cfg.Logger.Encoding,
		App:      cfg.AppName,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	repo := openRepository(appCtx, cfg, manager, zapLogger)

	var (
		cacheStore *cache.Store
		docCache   services.DocumentCache
	)
	if cfg.Cache.Path != "" {
		cacheStore, err = cache.Open(cfg.Cache.Path, cfg.Cache.Bucket)
		if err != nil {
			zapLogger.Fatal("failed to open document cache", zap.Error(err))
		}
		docCache = cacheStore
		manager.Register("cache", func(ctx context.Context) error {
			return cacheStore.Close()
		})
	}

	mon := monitor.New(repo, cfg.Store.Backend, cacheStore, cfg.Sync.MonitorInterval, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	dispatcher := usecase.NewDispatcher(nil,
		usecase.WithHistoryLimit(cfg.Sync.HistoryLimit),
		usecase.WithLogger(zapLogger),
	)

	coordinator, err := services.NewCoordinator(dispatcher, repo, docCache, mon, zapLogger, services.CoordinatorConfig{
		DocumentID:       cfg.Store.DocumentID,
		SaveDebounce:     cfg.Sync.SaveDebounce,
		PollInterval:     cfg.Sync.PollInterval,
		VersionTolerance: cfg.Sync.VersionTolerance,
		RemoteTimeout:    cfg.Sync.RemoteTimeout,
	})
	if err != nil {
		zapLogger.Fatal("invalid coordinator configuration", zap.Error(err))
	}
	if err := coordinator.Start(appCtx); err != nil {
		zapLogger.Warn("initial document load failed; polling will retry", zap.Error(err))
	}
	manager.Register("coordinator", coordinator.Shutdown)

	scheduler, err := services.NewScheduler(dispatcher, coordinator, zapLogger, services.SchedulerConfig{
		TimerCheckInterval: cfg.Sync.TimerCheck,
		StreakSchedule:     cfg.Sync.StreakSchedule,
	})
	if err != nil {
		zapLogger.Fatal("invalid scheduler configuration", zap.Error(err))
	}
	scheduler.Start()
	manager.Register("scheduler", func(ctx context.Context) error {
		scheduler.Stop(ctx)
		return nil
	})

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout).WithBase(appCtx)

	handlers := router.Handlers{
		Document: apiHandler.NewDocumentHandler(dispatcher, coordinator, ctxAdapter, zapLogger),
		Health:   apiHandler.NewHealthHandler(mon, coordinator, ctxAdapter, zapLogger),
	}

	if cfg.JWT.Secret == "" {
		zapLogger.Warn("JWT_SECRET is empty; every /api/v1 request will be rejected")
	}
	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.String("backend", cfg.Store.Backend))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}

// openRepository connects the remote document store selected by STORE_BACKEND.
func openRepository(ctx context.Context, cfg *config.Config, manager *lifecycle.Manager, zapLogger *zap.Logger) repository.DocumentRepository {
	switch cfg.Store.Backend {
	case config.BackendRedis:
		client, err := redisInfra.NewClient(ctx, cfg.Redis, cfg.Sync.RemoteTimeout, zapLogger)
		if err != nil {
			zapLogger.Fatal("redis connection failed", zap.Error(err))
		}
		manager.Register("redis", func(ctx context.Context) error {
			return client.Close()
		})
		return redisRepo.NewDocumentRepository(client, cfg.Redis.Prefix, cfg.Store.DocumentID)

	case config.BackendMemory:
		zapLogger.Warn("using in-memory document store; data is lost on restart")
		return memory.NewDocumentRepository(cfg.Store.DocumentID)

	default:
		if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
			zapLogger.Fatal("migrations failed", zap.Error(err))
		}
		pool, err := pgInfra.NewPool(ctx, cfg.Database, cfg.Sync.RemoteTimeout, zapLogger)
		if err != nil {
			zapLogger.Fatal("postgres connection failed", zap.Error(err))
		}
		manager.Register("postgres", func(ctx context.Context) error {
			pool.Close()
			return nil
		})
		return pgRepo.NewDocumentRepository(pool, cfg.Store.DocumentID)
	}
}
