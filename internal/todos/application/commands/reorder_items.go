package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// ReorderItemsCommand gives the named items ordinals 0..k-1 in sequence
// order. Items not named keep their ordinals.
type ReorderItemsCommand struct {
	OwnerID uuid.UUID
	ItemIDs []uuid.UUID
}

// ReorderItemsHandler handles ReorderItemsCommand.
type ReorderItemsHandler struct {
	items      domain.ItemRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewReorderItemsHandler(items domain.ItemRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ReorderItemsHandler {
	return &ReorderItemsHandler{items: items, outboxRepo: outboxRepo, uow: uow}
}

// Handle validates the whole sequence before writing anything. Unknown ids
// and ids owned by someone else both fail with ErrItemNotFound.
func (h *ReorderItemsHandler) Handle(ctx context.Context, cmd ReorderItemsCommand) error {
	if err := domain.CheckSequence(cmd.ItemIDs); err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.items.LockOwner(txCtx, cmd.OwnerID); err != nil {
			return err
		}

		found, err := h.items.FindByIDs(txCtx, cmd.OwnerID, cmd.ItemIDs)
		if err != nil {
			return err
		}
		if len(found) != len(cmd.ItemIDs) {
			return domain.ErrItemNotFound
		}

		completed := make(map[uuid.UUID]bool, len(found))
		for _, item := range found {
			completed[item.ID()] = item.IsCompleted()
		}
		entries := make([]domain.OrderEntry, len(cmd.ItemIDs))
		for i, id := range cmd.ItemIDs {
			entries[i] = domain.OrderEntry{ID: id, Completed: completed[id]}
		}
		if err := domain.ValidateOrder(entries); err != nil {
			return err
		}

		if err := h.items.UpdateOrdinals(txCtx, cmd.OwnerID, domain.Ordinals(cmd.ItemIDs)); err != nil {
			return err
		}

		event := domain.NewItemsReordered(cmd.OwnerID, cmd.ItemIDs)
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, []shared.DomainEvent{event})
	})
}
