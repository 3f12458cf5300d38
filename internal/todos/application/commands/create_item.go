package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// CreateItemCommand contains the data needed to add an item.
type CreateItemCommand struct {
	OwnerID     uuid.UUID
	Title       string
	Description string
	DueAt       *time.Time
	// Effort is raw form input; it is parsed and clamped, never rejected.
	Effort      string
	CategoryIDs []uuid.UUID
}

// CreateItemHandler handles CreateItemCommand.
type CreateItemHandler struct {
	items      domain.ItemRepository
	categories domain.CategoryRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

// NewCreateItemHandler creates a new CreateItemHandler.
func NewCreateItemHandler(items domain.ItemRepository, categories domain.CategoryRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateItemHandler {
	return &CreateItemHandler{items: items, categories: categories, outboxRepo: outboxRepo, uow: uow}
}

// Handle creates the item and returns its ID.
func (h *CreateItemHandler) Handle(ctx context.Context, cmd CreateItemCommand) (uuid.UUID, error) {
	item, err := domain.NewItem(cmd.OwnerID, cmd.Title)
	if err != nil {
		return uuid.Nil, err
	}
	item.SetDescription(cmd.Description)
	item.SetDueAt(cmd.DueAt)
	item.SetEffort(domain.ParseEffort(cmd.Effort))
	item.SetCategories(cmd.CategoryIDs)

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := checkCategories(txCtx, h.categories, cmd.OwnerID, item.CategoryIDs()); err != nil {
			return err
		}
		if err := h.items.Save(txCtx, item); err != nil {
			return err
		}
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, item.DomainEvents())
	})
	if err != nil {
		return uuid.Nil, err
	}
	return item.ID(), nil
}

// checkCategories fails unless every id names one of the owner's
// categories. ids must be free of duplicates.
func checkCategories(ctx context.Context, repo domain.CategoryRepository, ownerID uuid.UUID, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	found, err := repo.FindByIDs(ctx, ownerID, ids)
	if err != nil {
		return err
	}
	if len(found) != len(ids) {
		return domain.ErrCategoryNotFound
	}
	return nil
}
