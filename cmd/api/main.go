package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	httptransport "github.com/spec-kit/goldennest/internal/api/http"
	"github.com/spec-kit/goldennest/internal/api/http/handlers"
	"github.com/spec-kit/goldennest/internal/cache"
	"github.com/spec-kit/goldennest/internal/config"
	"github.com/spec-kit/goldennest/internal/events"
	"github.com/spec-kit/goldennest/internal/observability"
	"github.com/spec-kit/goldennest/internal/persistence"
	"github.com/spec-kit/goldennest/internal/repository"
	"github.com/spec-kit/goldennest/internal/repository/memory"
	"github.com/spec-kit/goldennest/internal/service"
	"github.com/spec-kit/goldennest/internal/storage"
	"github.com/spec-kit/goldennest/internal/worker"
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

	health := map[string]handlers.Pinger{}

	var repos repository.Set
	if cfg.Postgres.DSN == "" {
		logger.Warn("POSTGRES_DSN not set, using in-memory store")
		repos = memory.NewStore().Set()
		health["postgres"] = nil
	} else {
		pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
		if err != nil {
			logger.Fatal("failed to connect postgres", zap.Error(err))
		}
		defer pg.Close()

		if cfg.Postgres.RunMigrations {
			if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
				logger.Fatal("failed to run migrations", zap.Error(err))
			}
		}
		repos = repository.NewPostgresSet(pg.PoolHandle())
		health["postgres"] = pg
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()
	health["redis"] = redis

	var provider storage.Provider
	if cfg.Storage.Enabled() {
		provider, err = storage.NewS3Provider(ctx, cfg.Storage)
		if err != nil {
			logger.Fatal("failed to init image storage", zap.Error(err))
		}
		logger.Info("image storage enabled", zap.String("bucket", cfg.Storage.Bucket))
	} else {
		logger.Warn("STORAGE_BUCKET not set, image uploads disabled")
	}

	dispatcher := events.NewInMemoryDispatcher(logger)
	var sink *events.KafkaSink
	if len(cfg.Events.KafkaBrokers) > 0 {
		sink, err = events.NewKafkaSink(cfg.Events.KafkaBrokers, cfg.Events.TopicPrefix, logger.Named("kafka"))
		if err != nil {
			logger.Fatal("failed to init kafka sink", zap.Error(err))
		}
		defer sink.Close() //nolint:errcheck
	}
	notifications := service.NewNotificationService(dispatcher, logger, cfg.Notification)
	worker.StartNotificationWorker(dispatcher, notifications, sink, logger)

	metrics := observability.NewMetrics()
	app := httptransport.NewServer(httptransport.ServerDependencies{
		Config:     cfg,
		Repos:      repos,
		Summary:    cache.NewSummaryCache(redis.Client, cfg.Redis.SummaryTTL()),
		Storage:    provider,
		Dispatcher: dispatcher,
		Logger:     logger,
		Metrics:    metrics,
		Health:     health,
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	if err := app.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
