package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// UpdateItemCommand replaces the editable fields of an item.
type UpdateItemCommand struct {
	ItemID      uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	DueAt       *time.Time
	Effort      string
	CategoryIDs []uuid.UUID
}

// UpdateItemHandler handles UpdateItemCommand.
type UpdateItemHandler struct {
	items      domain.ItemRepository
	categories domain.CategoryRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewUpdateItemHandler creates a new UpdateItemHandler.
func NewUpdateItemHandler(items domain.ItemRepository, categories domain.CategoryRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *UpdateItemHandler {
	return &UpdateItemHandler{items: items, categories: categories, outboxRepo: outboxRepo, uow: uow}
}

func (h *UpdateItemHandler) Handle(ctx context.Context, cmd UpdateItemCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		item, err := findOwnedItem(txCtx, h.items, cmd.ItemID, cmd.OwnerID)
		if err != nil {
			return err
		}

		if err := item.Rename(cmd.Title); err != nil {
			return err
		}
		item.SetDescription(cmd.Description)
		item.SetDueAt(cmd.DueAt)
		item.SetEffort(domain.ParseEffort(cmd.Effort))
		item.SetCategories(cmd.CategoryIDs)

		if err := checkCategories(txCtx, h.categories, cmd.OwnerID, item.CategoryIDs()); err != nil {
			return err
		}

		item.MarkUpdated("title", "description", "due_at", "effort", "categories")
		if err := h.items.Save(txCtx, item); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, item.DomainEvents())
	})
}

// findOwnedItem hides other owners' items behind ErrItemNotFound.
func findOwnedItem(ctx context.Context, repo domain.ItemRepository, itemID, ownerID uuid.UUID) (*domain.Item, error) {
	item, err := repo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(ownerID) {
		return nil, domain.ErrItemNotFound
	}
	return item, nil
}
