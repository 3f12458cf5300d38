// Package commands holds the write side of the todo list. Every handler
// runs in one unit of work and stores the events it raised in the outbox
// before committing.
package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
)

func saveEvents(ctx context.Context, outboxRepo outbox.Repository, userID uuid.UUID, events []domain.DomainEvent) error {
	if len(events) == 0 {
		return nil
	}
	sharedApplication.StampEvents(events, sharedApplication.NewEventMetadata(ctx, userID))

	msgs, err := outbox.FromEvents(events)
	if err != nil {
		return err
	}
	return outboxRepo.SaveBatch(ctx, msgs)
}
