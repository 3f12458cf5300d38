package mcp

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ordo/adapter/cli"
	mcpinternal "github.com/felixgeelhaar/ordo/internal/mcp"
)

var warm bool

// Cmd serves the documentation tools over MCP.
var Cmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the documentation search MCP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		logger := cli.Logger()

		container, err := cli.OpenContainer(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = container.Close() }()

		if warm {
			if err := container.Docs.Warm(ctx); err != nil {
				logger.Warn("docs warm-up failed", "error", err)
			}
		}

		srv, err := mcpinternal.NewServer(container, cli.Version, logger)
		if err != nil {
			return err
		}
		err = mcpinternal.Serve(ctx, container.Config, srv, logger)
		if err != nil && !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	},
}

func init() {
	Cmd.Flags().BoolVar(&warm, "warm", false, "download and index every corpus before serving")
}
