package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sitepilot/engine/internal/queue/tasks"
	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/internal/services"
	"github.com/sitepilot/engine/pkg/config"
	"github.com/sitepilot/engine/pkg/database"
	"github.com/sitepilot/engine/pkg/logger"
	"github.com/sitepilot/engine/pkg/telemetry"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	if cfg.RedisAddr == "" {
		log.Fatal("REDIS_ADDR is required for the worker")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serviceName := cfg.OtelServiceName
	if serviceName != "" {
		serviceName += "-worker"
	}
	shutdownTracing, err := telemetry.Init(ctx, cfg.OtelEnabled, serviceName)
	if err != nil {
		log.Fatal("failed to init tracing", zap.Error(err))
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatal("redis connection failed", zap.Error(err))
	}

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	sites := services.NewSiteService(
		repository.NewDeploymentRepository(db),
		repository.NewVersionRepository(db),
		repository.NewProjectRepository(db),
		repository.NewSiteRepository(db),
		cfg.SiteBaseDomain,
	)

	mux := asynq.NewServeMux()
	tasks.NewPublishTaskHandler(sites).Register(mux)

	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword},
		asynq.Config{
			Concurrency: cfg.AsynqConcurrency,
			Logger:      log.Sugar(),
		},
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("asynq worker starting", zap.Int("concurrency", cfg.AsynqConcurrency))
		return srv.Start(mux)
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutdown signal received")
		srv.Shutdown()
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("worker stopped with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
}
