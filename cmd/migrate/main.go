package main

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sitepilot/engine/internal/repository"
	"github.com/sitepilot/engine/pkg/config"
	"github.com/sitepilot/engine/pkg/database"
	"github.com/sitepilot/engine/pkg/logger"
)

func main() {
	cfg := config.MustLoad()
	log, err := logger.Init(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	db, err := database.Open(ctx, cfg.DatabaseURL, database.Options{Verbose: cfg.IsDevelopment()})
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	start := time.Now()
	if err := repository.Migrate(db.WithContext(ctx)); err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("migrations completed", zap.Duration("elapsed", time.Since(start)))
}
