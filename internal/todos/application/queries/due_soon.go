package queries

import (
	"context"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// DueSoonQuery lists incomplete items that have a due date, earliest first.
type DueSoonQuery struct {
	OwnerID uuid.UUID
}

// DueSoonHandler handles DueSoonQuery.
type DueSoonHandler struct {
	items      domain.ItemRepository
	categories domain.CategoryRepository
}

func NewDueSoonHandler(items domain.ItemRepository, categories domain.CategoryRepository) *DueSoonHandler {
	return &DueSoonHandler{items: items, categories: categories}
}

func (h *DueSoonHandler) Handle(ctx context.Context, query DueSoonQuery) ([]ItemDTO, error) {
	items, err := h.items.FindByOwner(ctx, query.OwnerID, domain.ItemFilter{})
	if err != nil {
		return nil, err
	}
	categories, err := h.categories.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	due := make([]*domain.Item, 0, len(items))
	for _, item := range items {
		if item.DueAt() != nil && !item.IsCompleted() {
			due = append(due, item)
		}
	}
	sort.SliceStable(due, func(i, j int) bool {
		return due[i].DueAt().Before(*due[j].DueAt())
	})

	names := categoryNames(categories)
	now := time.Now().UTC()
	dtos := make([]ItemDTO, 0, len(due))
	for _, item := range due {
		dtos = append(dtos, toItemDTO(item, names, now))
	}
	return dtos, nil
}
