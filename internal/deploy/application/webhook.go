// Package application accepts GitHub deliveries and starts deployments.
package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/deploy/domain"
	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// WebhookCommand is one raw delivery.
type WebhookCommand struct {
	EventType string
	Signature string
	Body      []byte
}

// WebhookResult is answered to GitHub as JSON.
type WebhookResult struct {
	Status       string `json:"status"`
	Reason       string `json:"reason,omitempty"`
	Message      string `json:"message,omitempty"`
	Pusher       string `json:"pusher,omitempty"`
	DeploymentID string `json:"deployment_id,omitempty"`
}

// WebhookConfig holds the secret and the ref that deploys.
type WebhookConfig struct {
	Secret    string
	BranchRef string
}

// WebhookHandler verifies deliveries and runs accepted deploys in the
// background.
type WebhookHandler struct {
	cfg        WebhookConfig
	runner     domain.Runner
	outboxRepo outbox.Repository
	metrics    observability.Metrics
	logger     *slog.Logger

	wg sync.WaitGroup
}

// NewWebhookHandler creates the handler. A nil runner accepts pushes
// without running anything.
func NewWebhookHandler(cfg WebhookConfig, runner domain.Runner, outboxRepo outbox.Repository, metrics observability.Metrics, logger *slog.Logger) *WebhookHandler {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &WebhookHandler{cfg: cfg, runner: runner, outboxRepo: outboxRepo, metrics: metrics, logger: logger}
}

func (h *WebhookHandler) Handle(ctx context.Context, cmd WebhookCommand) (*WebhookResult, error) {
	if err := domain.VerifySignature(h.cfg.Secret, cmd.Body, cmd.Signature); err != nil {
		h.logger.Warn("rejected github webhook", "event", cmd.EventType, "error", err)
		return nil, err
	}

	decision, err := domain.Decide(cmd.EventType, cmd.Body, h.cfg.BranchRef)
	if err != nil {
		return nil, err
	}
	if !decision.Deploy {
		return &WebhookResult{Status: decision.Status, Reason: decision.Reason}, nil
	}

	deploymentID := uuid.New()
	if err := h.record(ctx, deploymentID, decision); err != nil {
		return nil, err
	}

	h.logger.Info("deployment triggered",
		"deployment_id", deploymentID,
		"pusher", decision.Pusher,
		"commits", decision.Commits,
	)
	h.metrics.Counter(observability.MetricDeploysTriggered, 1)
	h.start(ctx, deploymentID)

	return &WebhookResult{
		Status:       decision.Status,
		Message:      fmt.Sprintf("Deployment started for %d commit(s)", decision.Commits),
		Pusher:       decision.Pusher,
		DeploymentID: deploymentID.String(),
	}, nil
}

func (h *WebhookHandler) record(ctx context.Context, deploymentID uuid.UUID, d domain.Decision) error {
	if h.outboxRepo == nil {
		return nil
	}
	ref := h.cfg.BranchRef
	if ref == "" {
		ref = domain.DefaultBranchRef
	}
	events := []shared.DomainEvent{domain.NewDeployTriggered(deploymentID, ref, d.Pusher, d.Commits)}
	sharedApplication.StampEvents(events, sharedApplication.NewEventMetadata(ctx, uuid.Nil))
	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	return h.outboxRepo.SaveBatch(ctx, msgs)
}

// start runs the deploy detached from the request; the request context
// only contributes its values.
func (h *WebhookHandler) start(ctx context.Context, deploymentID uuid.UUID) {
	if h.runner == nil {
		return
	}
	runCtx := context.WithoutCancel(ctx)

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		timer := observability.StartTimer("deploy").WithMetrics(h.metrics)
		out, err := h.runner.Run(runCtx)
		elapsed := timer.StopWithError(err)
		if err != nil {
			h.logger.Error("deployment failed",
				"deployment_id", deploymentID,
				"output", string(out),
				"duration_ms", elapsed.Milliseconds(),
				"error", err,
			)
			return
		}
		h.logger.Info("deployment completed",
			"deployment_id", deploymentID,
			"duration_ms", elapsed.Milliseconds(),
			"output_bytes", len(out),
		)
	}()
}

// Wait blocks until every started deploy has finished.
func (h *WebhookHandler) Wait() {
	h.wg.Wait()
}
