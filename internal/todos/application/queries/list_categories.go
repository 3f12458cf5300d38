package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// ListCategoriesQuery lists an owner's categories by ordinal, then name.
type ListCategoriesQuery struct {
	OwnerID uuid.UUID
}

// ListCategoriesHandler handles ListCategoriesQuery.
type ListCategoriesHandler struct {
	categories domain.CategoryRepository
}

func NewListCategoriesHandler(categories domain.CategoryRepository) *ListCategoriesHandler {
	return &ListCategoriesHandler{categories: categories}
}

func (h *ListCategoriesHandler) Handle(ctx context.Context, query ListCategoriesQuery) ([]CategoryDTO, error) {
	categories, err := h.categories.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}
	dtos := make([]CategoryDTO, 0, len(categories))
	for _, c := range categories {
		dtos = append(dtos, toCategoryDTO(c))
	}
	return dtos, nil
}
