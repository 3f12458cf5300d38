package eventbus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// Handler reacts to one delivered event.
type Handler func(ctx context.Context, routingKey string, payload []byte) error

// LocalBus dispatches events synchronously to in-process subscribers.
type LocalBus struct {
	mu       sync.RWMutex
	handlers map[string][]Handler
	logger   *slog.Logger
}

// NewLocalBus creates an empty bus.
func NewLocalBus(logger *slog.Logger) *LocalBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &LocalBus{handlers: make(map[string][]Handler), logger: logger}
}

// Subscribe registers h for routingKey.
func (b *LocalBus) Subscribe(routingKey string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers[routingKey] = append(b.handlers[routingKey], h)
}

// Publish runs every handler for routingKey. A failing handler fails the
// publish so the outbox retries delivery.
func (b *LocalBus) Publish(ctx context.Context, routingKey string, payload []byte) error {
	b.mu.RLock()
	handlers := b.handlers[routingKey]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, routingKey, payload); err != nil {
			return fmt.Errorf("handle %s: %w", routingKey, err)
		}
	}
	if len(handlers) > 0 {
		b.logger.Debug("event dispatched", "routing_key", routingKey, "handlers", len(handlers))
	}
	return nil
}

func (b *LocalBus) Close() error { return nil }
