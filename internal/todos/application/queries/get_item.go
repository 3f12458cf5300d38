package queries

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// GetItemQuery loads one item for its owner.
type GetItemQuery struct {
	ItemID  uuid.UUID
	OwnerID uuid.UUID
}

// GetItemHandler handles GetItemQuery.
type GetItemHandler struct {
	items      domain.ItemRepository
	categories domain.CategoryRepository
}

func NewGetItemHandler(items domain.ItemRepository, categories domain.CategoryRepository) *GetItemHandler {
	return &GetItemHandler{items: items, categories: categories}
}

// Handle returns ErrItemNotFound for items owned by someone else.
func (h *GetItemHandler) Handle(ctx context.Context, query GetItemQuery) (*ItemDTO, error) {
	item, err := h.items.FindByID(ctx, query.ItemID)
	if err != nil {
		return nil, err
	}
	if !item.IsOwnedBy(query.OwnerID) {
		return nil, domain.ErrItemNotFound
	}

	categories, err := h.categories.FindByIDs(ctx, query.OwnerID, item.CategoryIDs())
	if err != nil {
		return nil, err
	}

	dto := toItemDTO(item, categoryNames(categories), time.Now().UTC())
	return &dto, nil
}
