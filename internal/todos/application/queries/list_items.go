// Package queries holds the read side of the todos context.
package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// ListItemsQuery lists an owner's items in default list order.
type ListItemsQuery struct {
	OwnerID       uuid.UUID
	CategoryID    *uuid.UUID
	ShowCompleted bool
}

// ListItemsHandler handles ListItemsQuery.
type ListItemsHandler struct {
	items      domain.ItemRepository
	categories domain.CategoryRepository
}

func NewListItemsHandler(items domain.ItemRepository, categories domain.CategoryRepository) *ListItemsHandler {
	return &ListItemsHandler{items: items, categories: categories}
}

func (h *ListItemsHandler) Handle(ctx context.Context, query ListItemsQuery) ([]ItemDTO, error) {
	items, err := h.items.FindByOwner(ctx, query.OwnerID, domain.ItemFilter{
		CategoryID:       query.CategoryID,
		IncludeCompleted: query.ShowCompleted,
	})
	if err != nil {
		return nil, err
	}
	domain.SortItems(items)

	categories, err := h.categories.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	names := categoryNames(categories)
	now := time.Now().UTC()
	dtos := make([]ItemDTO, 0, len(items))
	for _, item := range items {
		dtos = append(dtos, toItemDTO(item, names, now))
	}
	return dtos, nil
}
