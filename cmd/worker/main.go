package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/ordo/internal/app"
	"github.com/felixgeelhaar/ordo/pkg/config"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	logger.Info("starting ordo worker")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger); err != nil {
		logger.Error("worker failed", "error", err)
		os.Exit(1)
	}
	logger.Info("worker stopped")
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := config.Load(os.Getenv("ORDO_CONFIG"))
	if err != nil {
		return err
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = container.Close() }()

	if err := container.LeaderboardSubscriber.Warm(ctx); err != nil {
		logger.Warn("leaderboard cache warm-up failed", "error", err)
	}

	logger.Info("starting outbox processor",
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
	)
	return container.RunWorker(ctx, cfg.WorkerHealthAddr)
}
