package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// NextActionCreate tells the client to open the new-item form.
const NextActionCreate = "create"

// NextAction describes what the client should do after completing an item.
type NextAction struct {
	Kind        string
	CategoryIDs []uuid.UUID
}

// CompleteAndFollowupCommand completes an item and asks for a follow-up
// item carrying the same categories.
type CompleteAndFollowupCommand struct {
	ItemID  uuid.UUID
	OwnerID uuid.UUID
}

// CompleteAndFollowupHandler handles CompleteAndFollowupCommand.
type CompleteAndFollowupHandler struct {
	items      domain.ItemRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewCompleteAndFollowupHandler(items domain.ItemRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CompleteAndFollowupHandler {
	return &CompleteAndFollowupHandler{items: items, outboxRepo: outboxRepo, uow: uow}
}

// Handle completes the item even when it is already complete, refreshing
// its completion time.
func (h *CompleteAndFollowupHandler) Handle(ctx context.Context, cmd CompleteAndFollowupCommand) (*NextAction, error) {
	var next *NextAction
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.items.LockOwner(txCtx, cmd.OwnerID); err != nil {
			return err
		}
		item, err := findOwnedItem(txCtx, h.items, cmd.ItemID, cmd.OwnerID)
		if err != nil {
			return err
		}

		item.Complete()
		if err := h.items.Save(txCtx, item); err != nil {
			return err
		}

		next = &NextAction{Kind: NextActionCreate, CategoryIDs: item.CategoryIDs()}
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, item.DomainEvents())
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}
