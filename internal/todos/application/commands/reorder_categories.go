package commands

import (
	"context"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// ReorderCategoriesCommand gives the named categories ordinals 0..k-1.
type ReorderCategoriesCommand struct {
	OwnerID     uuid.UUID
	CategoryIDs []uuid.UUID
}

// ReorderCategoriesHandler handles ReorderCategoriesCommand. Categories have
// no completion state, so any permutation is accepted.
type ReorderCategoriesHandler struct {
	categories domain.CategoryRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewReorderCategoriesHandler(categories domain.CategoryRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *ReorderCategoriesHandler {
	return &ReorderCategoriesHandler{categories: categories, outboxRepo: outboxRepo, uow: uow}
}

func (h *ReorderCategoriesHandler) Handle(ctx context.Context, cmd ReorderCategoriesCommand) error {
	if err := domain.CheckSequence(cmd.CategoryIDs); err != nil {
		return err
	}

	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.categories.LockOwner(txCtx, cmd.OwnerID); err != nil {
			return err
		}

		found, err := h.categories.FindByIDs(txCtx, cmd.OwnerID, cmd.CategoryIDs)
		if err != nil {
			return err
		}
		if len(found) != len(cmd.CategoryIDs) {
			return domain.ErrCategoryNotFound
		}

		if err := h.categories.UpdateOrdinals(txCtx, cmd.OwnerID, domain.Ordinals(cmd.CategoryIDs)); err != nil {
			return err
		}

		event := domain.NewCategoriesReordered(cmd.OwnerID, cmd.CategoryIDs)
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, []shared.DomainEvent{event})
	})
}
