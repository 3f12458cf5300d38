package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/felixgeelhaar/ordo/adapter/cli"
	"github.com/felixgeelhaar/ordo/adapter/cli/mcp"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

func main() {
	logger := observability.LoggerFromEnv()
	cli.SetLogger(logger)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cli.AddCommand(mcp.Cmd)
	cli.Execute(ctx)
}
