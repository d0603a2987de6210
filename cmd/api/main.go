package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sitepilot/engine/internal/api"
	"github.com/sitepilot/engine/internal/generation"
	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/internal/services"
	"github.com/sitepilot/engine/pkg/config"
	"github.com/sitepilot/engine/pkg/database"
	"github.com/sitepilot/engine/pkg/lock"
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

	log.Info("starting sitepilot engine",
		zap.String("env", cfg.AppEnv),
		zap.String("addr", cfg.HTTPAddr),
		zap.String("provider", cfg.GenerationProvider),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.Init(ctx, cfg.OtelEnabled, cfg.OtelServiceName)
	if err != nil {
		log.Fatal("failed to init tracing", zap.Error(err))
	}

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if cfg.IsDevelopment() {
		if err := repository.Migrate(db); err != nil {
			log.Fatal("auto-migration failed", zap.Error(err))
		}
	}
	log.Info("database connected")

	jwtSecret := []byte(cfg.JWTSecret)
	if len(jwtSecret) == 0 {
		if !cfg.IsDevelopment() {
			log.Fatal("JWT_SECRET must be set outside development")
		}
		log.Warn("JWT_SECRET not set, using development default")
		jwtSecret = []byte("dev-only-insecure-secret")
	}

	model, err := generation.NewModel(cfg)
	if err != nil {
		log.Fatal("failed to build generation model", zap.Error(err))
	}
	generator := generation.NewClient(model, cfg.GenerationTimeout)

	// A shared Redis lock serializes project writes across API replicas.
	var (
		locker lock.Locker = lock.NewKeyedMutex()
		queue  services.TaskEnqueuer
	)
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			log.Fatal("redis connection failed", zap.Error(err))
		}
		locker = lock.NewRedisLocker(rdb, "sitepilot:lock:", cfg.GenerationTimeout+time.Minute)

		client := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr, Password: cfg.RedisPassword})
		defer client.Close()
		queue = client
		log.Info("redis connected", zap.String("addr", cfg.RedisAddr))
	} else {
		log.Warn("REDIS_ADDR not set, using in-process locks and inline publishing")
	}

	tenantRepo := repository.NewTenantRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	versionRepo := repository.NewVersionRepository(db)
	deployRepo := repository.NewDeploymentRepository(db)

	brandingSvc := services.NewBrandingService(repository.NewBrandingRepository(db), tenantRepo)
	siteSvc := services.NewSiteService(deployRepo, versionRepo, projectRepo, repository.NewSiteRepository(db), cfg.SiteBaseDomain)

	router := api.NewRouter(api.Dependencies{
		Auth:        services.NewAuthService(db, repository.NewUserRepository(db), jwtSecret, cfg.JWTTTL),
		Projects:    services.NewProjectService(projectRepo, locker),
		Versions:    services.NewVersionService(projectRepo, versionRepo, tenantRepo, brandingSvc, nil, generator, locker),
		Branding:    brandingSvc,
		Deployments: services.NewDeploymentService(projectRepo, deployRepo, siteSvc, queue),
		Sites:       siteSvc,
		Ready:       func(ctx context.Context) error { return database.Ping(ctx, db) },

		CORSOrigins:    cfg.AllowedOrigins(),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      cfg.GenerationTimeout + 30*time.Second,
		IdleTimeout:       90 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return shutdownTracing(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server exited with error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	log.Info("server exited gracefully")
}
