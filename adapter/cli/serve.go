package cli

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/ordo/adapter/api"
)

var (
	serveAddr  string
	withWorker bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		container, err := OpenContainer(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = container.Close() }()

		if err := container.LeaderboardSubscriber.Warm(ctx); err != nil {
			Logger().Warn("leaderboard cache warm-up failed", "error", err)
		}

		srvCfg := api.DefaultServerConfig()
		srvCfg.Addr = container.Config.HTTPAddr
		if serveAddr != "" {
			srvCfg.Addr = serveAddr
		}
		srv := api.NewServer(srvCfg, container)

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), container.Config.ShutdownGrace)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
		if withWorker {
			g.Go(func() error {
				return container.RunWorker(gctx, "")
			})
		}
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (defaults to HTTP_ADDR)")
	serveCmd.Flags().BoolVar(&withWorker, "with-worker", false, "also run the outbox processor in this process")
	rootCmd.AddCommand(serveCmd)
}
