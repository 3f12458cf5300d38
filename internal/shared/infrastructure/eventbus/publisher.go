// Package eventbus delivers outbox messages to RabbitMQ and to in-process
// subscribers.
package eventbus

import (
	"context"
	"errors"
	"log/slog"
)

// Publisher sends one serialised event.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// NoopPublisher drops every message. It is used when no broker is set up.
type NoopPublisher struct {
	logger *slog.Logger
}

// NewNoopPublisher creates a NoopPublisher.
func NewNoopPublisher(logger *slog.Logger) *NoopPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NoopPublisher{logger: logger}
}

func (p *NoopPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	p.logger.Debug("noop publish", "routing_key", routingKey, "size", len(payload))
	return nil
}

func (p *NoopPublisher) Close() error { return nil }

// FanoutPublisher publishes to every wrapped publisher in order and stops
// at the first failure, so the outbox retries the whole message.
type FanoutPublisher struct {
	publishers []Publisher
}

// NewFanoutPublisher wraps publishers.
func NewFanoutPublisher(publishers ...Publisher) *FanoutPublisher {
	return &FanoutPublisher{publishers: publishers}
}

func (f *FanoutPublisher) Publish(ctx context.Context, routingKey string, payload []byte) error {
	for _, p := range f.publishers {
		if err := p.Publish(ctx, routingKey, payload); err != nil {
			return err
		}
	}
	return nil
}

func (f *FanoutPublisher) Close() error {
	var errs []error
	for _, p := range f.publishers {
		errs = append(errs, p.Close())
	}
	return errors.Join(errs...)
}
