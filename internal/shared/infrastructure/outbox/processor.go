package outbox

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/convert"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/eventbus"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

// ProcessorConfig tunes the delivery loop.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
	Retention        time.Duration
	CleanupInterval  time.Duration
}

// DefaultProcessorConfig returns the settings used when none are given.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     250 * time.Millisecond,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
		Retention:        14 * 24 * time.Hour,
		CleanupInterval:  24 * time.Hour,
	}
}

// Processor polls the outbox and hands messages to a publisher.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	metrics   observability.Metrics

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup
}

// NewProcessor creates a processor. A nil metrics collector disables metrics.
func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger, metrics observability.Metrics) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		metrics:   metrics,
	}
}

// Start launches the loop; it returns immediately. Calling Start on a
// running processor does nothing.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})

	p.wg.Add(1)
	go p.run(ctx, p.stop)

	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
}

// Stop ends the loop and waits for the in-flight batch.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

// IsRunning reports whether the loop is active.
func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) run(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()

	poll := time.NewTicker(p.config.PollInterval)
	defer poll.Stop()

	cleanupEvery := p.config.CleanupInterval
	if cleanupEvery <= 0 {
		cleanupEvery = 24 * time.Hour
	}
	cleanup := time.NewTicker(cleanupEvery)
	defer cleanup.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-poll.C:
			if err := p.ProcessOnce(ctx); err != nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		case <-cleanup.C:
			if _, err := p.Cleanup(ctx); err != nil {
				p.logger.Error("outbox cleanup failed", "error", err)
			}
		}
	}
}

// ProcessOnce delivers one batch synchronously.
func (p *Processor) ProcessOnce(ctx context.Context) error {
	msgs, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		return err
	}

	for _, msg := range msgs {
		if err := p.publisher.Publish(ctx, msg.RoutingKey, msg.Payload); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("mark outbox message published", "id", msg.ID, "error", err)
			continue
		}
		p.metrics.Counter(observability.MetricEventsPublished, 1, observability.T("routing_key", msg.RoutingKey))
	}
	return nil
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, cause error) {
	p.logger.Warn("publish outbox message",
		"id", msg.ID,
		"event_id", msg.EventID,
		"routing_key", msg.RoutingKey,
		"retry_count", msg.RetryCount,
		"error", cause,
	)

	if p.config.MaxRetries <= 0 || !msg.CanRetry(p.config.MaxRetries) {
		p.metrics.Counter(observability.MetricEventsDeadLettered, 1, observability.T("routing_key", msg.RoutingKey))
		if err := p.repo.MarkDead(ctx, msg.ID, cause.Error()); err != nil {
			p.logger.Error("dead-letter outbox message", "id", msg.ID, "error", err)
		}
		return
	}

	p.metrics.Counter(observability.MetricEventsFailed, 1, observability.T("routing_key", msg.RoutingKey))
	next := time.Now().Add(p.retryBackoff(msg.RetryCount + 1))
	if err := p.repo.MarkFailed(ctx, msg.ID, cause.Error(), next); err != nil {
		p.logger.Error("mark outbox message failed", "id", msg.ID, "error", err)
	}
}

// retryBackoff doubles from the base delay per attempt, capped at the max.
func (p *Processor) retryBackoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	ceiling := p.config.RetryBackoffMax
	if ceiling <= 0 {
		ceiling = time.Minute
	}
	shift := convert.IntToUintClamped(attempt - 1)
	if shift > 30 {
		return ceiling
	}
	if backoff := base << shift; backoff < ceiling {
		return backoff
	}
	return ceiling
}

// Cleanup removes published messages older than the retention window.
func (p *Processor) Cleanup(ctx context.Context) (int64, error) {
	retention := p.config.Retention
	if retention <= 0 {
		return 0, nil
	}
	n, err := p.repo.DeleteOld(ctx, time.Now().Add(-retention))
	if err != nil {
		return 0, err
	}
	if n > 0 {
		p.logger.Info("outbox cleanup", "deleted", n)
	}
	return n, nil
}
