package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/ordo/internal/app"
	mcpinternal "github.com/felixgeelhaar/ordo/internal/mcp"
	"github.com/felixgeelhaar/ordo/pkg/config"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

var version = "dev"

func main() {
	logger := observability.LoggerFromEnv()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(os.Getenv("ORDO_CONFIG"))
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	container, err := app.NewContainer(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer func() { _ = container.Close() }()

	srv, err := mcpinternal.NewServer(container, version, logger)
	if err != nil {
		logger.Error("failed to build mcp server", "error", err)
		os.Exit(1)
	}

	if err := mcpinternal.Serve(ctx, cfg, srv, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("mcp server error", "error", err)
		os.Exit(1)
	}
}
