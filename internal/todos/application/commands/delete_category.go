package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// DeleteCategoryCommand removes a category; tagged items are kept.
type DeleteCategoryCommand struct {
	CategoryID uuid.UUID
	OwnerID    uuid.UUID
}

// DeleteCategoryHandler handles DeleteCategoryCommand.
type DeleteCategoryHandler struct {
	categories domain.CategoryRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewDeleteCategoryHandler(categories domain.CategoryRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *DeleteCategoryHandler {
	return &DeleteCategoryHandler{categories: categories, outboxRepo: outboxRepo, uow: uow}
}

func (h *DeleteCategoryHandler) Handle(ctx context.Context, cmd DeleteCategoryCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		category, err := h.categories.FindByID(txCtx, cmd.CategoryID)
		if err != nil {
			return err
		}
		if !category.IsOwnedBy(cmd.OwnerID) {
			return domain.ErrCategoryNotFound
		}

		if err := h.categories.Delete(txCtx, category.ID()); err != nil {
			return err
		}
		category.MarkDeleted()
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, category.DomainEvents())
	})
}
