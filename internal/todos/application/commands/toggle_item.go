package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// ToggleItemCommand flips an item between complete and incomplete.
type ToggleItemCommand struct {
	ItemID  uuid.UUID
	OwnerID uuid.UUID
}

// ToggleItemResult is the item's completion state after the toggle.
type ToggleItemResult struct {
	ItemID      uuid.UUID
	Completed   bool
	CompletedAt *time.Time
}

// ToggleItemHandler handles ToggleItemCommand.
type ToggleItemHandler struct {
	items      domain.ItemRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewToggleItemHandler(items domain.ItemRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ToggleItemHandler {
	return &ToggleItemHandler{items: items, outboxRepo: outboxRepo, uow: uow}
}

// Handle toggles under the owner lock so a concurrent reorder sees either
// the old or the new completion state, never a mix.
func (h *ToggleItemHandler) Handle(ctx context.Context, cmd ToggleItemCommand) (*ToggleItemResult, error) {
	var result *ToggleItemResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.items.LockOwner(txCtx, cmd.OwnerID); err != nil {
			return err
		}
		item, err := findOwnedItem(txCtx, h.items, cmd.ItemID, cmd.OwnerID)
		if err != nil {
			return err
		}

		completed := item.Toggle()
		if err := h.items.Save(txCtx, item); err != nil {
			return err
		}

		result = &ToggleItemResult{ItemID: item.ID(), Completed: completed, CompletedAt: item.CompletedAt()}
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, item.DomainEvents())
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
