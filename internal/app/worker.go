package app

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// RunWorker drives the outbox processor until ctx is canceled. A non-empty
// healthAddr also serves /healthz and /readyz for the worker.
func (c *Container) RunWorker(ctx context.Context, healthAddr string) error {
	g, gctx := errgroup.WithContext(ctx)

	c.Processor.Start(gctx)
	g.Go(func() error {
		<-gctx.Done()
		c.Processor.Stop()
		return nil
	})

	if healthAddr != "" {
		srv := &http.Server{
			Addr:              healthAddr,
			Handler:           c.WorkerHealthHandler(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		g.Go(func() error {
			c.Logger.Info("health server starting", "addr", healthAddr)
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		})
	}

	return g.Wait()
}

// WorkerHealthHandler reports processor liveness and dependency readiness.
func (c *Container) WorkerHealthHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, map[string]any{
			"status":   "ok",
			"running":  c.Processor.IsRunning(),
			"counters": c.Metrics.Snapshot(),
		})
	})
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		health := c.Health.Check(checkCtx)
		if health.Status == observability.HealthStatusUnhealthy {
			writeHealth(w, http.StatusServiceUnavailable, health)
			return
		}
		writeHealth(w, http.StatusOK, health)
	})
	return mux
}

func writeHealth(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
