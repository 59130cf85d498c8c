package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/medicore/hms-api/internal/config"
	"github.com/medicore/hms-api/internal/repository/postgres"
	hospitalService "github.com/medicore/hms-api/internal/service/hospital"
	internalworker "github.com/medicore/hms-api/internal/worker"
	"github.com/medicore/hms-api/pkg/logger"
	"github.com/medicore/hms-api/pkg/messaging/redis"
	"github.com/medicore/hms-api/pkg/metrics"
	"github.com/medicore/hms-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)
	appMetrics := metrics.NewMetrics("hms", "worker")
	zl := zerolog.New(os.Stdout).With().Timestamp().Logger()

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	outboxRepo := postgres.NewOutboxRepository(db)
	hospitalRepo := postgres.NewHospitalRepository(db)
	hospitalSvc := hospitalService.NewService(hospitalRepo)

	broker, err := redis.NewRedisBroker(redis.Config{
		URL:          cfg.Redis.URL,
		MaxRetries:   3,
		RetryBackoff: 100 * time.Millisecond,
		PoolSize:     10,
		MinIdleConns: 2,
	}, &zl)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	processor := worker.NewOutboxProcessor(outboxRepo, broker, worker.OutboxProcessorConfig{
		BatchSize:     cfg.Outbox.BatchSize,
		PollInterval:  cfg.Outbox.PollInterval,
		RetryAttempts: cfg.Outbox.MaxRetries,
		RetryDelay:    cfg.Outbox.RetryDelay,
	}, appLogger, appMetrics)
	go processor.Start(ctx)

	rosterSync := internalworker.NewRosterSync(broker, hospitalSvc, appLogger, appMetrics)
	go func() {
		if err := rosterSync.Start(ctx); err != nil {
			log.Error().Err(err).Msg("roster sync stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down worker...")
	cancel()

	// Give in-flight batches a moment to finish
	time.Sleep(2 * time.Second)
	log.Info().Msg("worker exited properly")
}
