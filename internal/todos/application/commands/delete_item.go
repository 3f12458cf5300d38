package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// DeleteItemCommand removes an item.
type DeleteItemCommand struct {
	ItemID  uuid.UUID
	OwnerID uuid.UUID
}

// DeleteItemHandler handles DeleteItemCommand.
type DeleteItemHandler struct {
	items      domain.ItemRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewDeleteItemHandler(items domain.ItemRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteItemHandler {
	return &DeleteItemHandler{items: items, outboxRepo: outboxRepo, uow: uow}
}

func (h *DeleteItemHandler) Handle(ctx context.Context, cmd DeleteItemCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		item, err := findOwnedItem(txCtx, h.items, cmd.ItemID, cmd.OwnerID)
		if err != nil {
			return err
		}
		if err := h.items.Delete(txCtx, item.ID()); err != nil {
			return err
		}
		item.MarkDeleted()
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, item.DomainEvents())
	})
}
