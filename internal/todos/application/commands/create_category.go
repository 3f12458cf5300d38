package commands

import (
	"context"
	"strings"

	"github.com/google/uuid"

	sharedApplication "github.com/felixgeelhaar/ordo/internal/shared/application"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// CreateCategoryCommand adds a category at the end of the owner's list.
type CreateCategoryCommand struct {
	OwnerID uuid.UUID
	Name    string
}

// CreateCategoryResult reports whether a category was created. A blank
// name is a no-op, not an error.
type CreateCategoryResult struct {
	Created    bool
	CategoryID uuid.UUID
	Ordinal    int
}

// CreateCategoryHandler handles CreateCategoryCommand.
type CreateCategoryHandler struct {
	categories domain.CategoryRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
}

func NewCreateCategoryHandler(categories domain.CategoryRepository, outboxRepo outbox.Repository, uow sharedApplication.UnitOfWork) *CreateCategoryHandler {
	return &CreateCategoryHandler{categories: categories, outboxRepo: outboxRepo, uow: uow}
}

func (h *CreateCategoryHandler) Handle(ctx context.Context, cmd CreateCategoryCommand) (CreateCategoryResult, error) {
	if strings.TrimSpace(cmd.Name) == "" {
		return CreateCategoryResult{}, nil
	}

	var result CreateCategoryResult
	err := sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		if err := h.categories.LockOwner(txCtx, cmd.OwnerID); err != nil {
			return err
		}
		ordinal, err := h.categories.NextOrdinal(txCtx, cmd.OwnerID)
		if err != nil {
			return err
		}

		category, err := domain.NewCategory(cmd.OwnerID, cmd.Name, ordinal)
		if err != nil {
			return err
		}
		if err := h.categories.Save(txCtx, category); err != nil {
			return err
		}

		result = CreateCategoryResult{Created: true, CategoryID: category.ID(), Ordinal: ordinal}
		return saveEvents(txCtx, h.outboxRepo, cmd.OwnerID, category.DomainEvents())
	})
	if err != nil {
		return CreateCategoryResult{}, err
	}
	return result, nil
}
