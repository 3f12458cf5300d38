package queries

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// ItemDraftQuery prepares the create form, usually after
// complete-and-followup. CategoryIDs are raw query values.
type ItemDraftQuery struct {
	OwnerID     uuid.UUID
	CategoryIDs []string
}

// ItemDraftDTO lists the owner's categories and which of them start
// selected.
type ItemDraftDTO struct {
	Categories  []CategoryDTO `json:"categories"`
	Preselected []uuid.UUID   `json:"preselected_category_ids"`
}

// ItemDraftHandler handles ItemDraftQuery.
type ItemDraftHandler struct {
	categories domain.CategoryRepository
}

func NewItemDraftHandler(categories domain.CategoryRepository) *ItemDraftHandler {
	return &ItemDraftHandler{categories: categories}
}

// Handle drops ids that do not parse or that name another owner's
// category, so a stale or hand-edited link still renders a form.
func (h *ItemDraftHandler) Handle(ctx context.Context, query ItemDraftQuery) (*ItemDraftDTO, error) {
	categories, err := h.categories.FindByOwner(ctx, query.OwnerID)
	if err != nil {
		return nil, err
	}

	draft := &ItemDraftDTO{
		Categories:  make([]CategoryDTO, 0, len(categories)),
		Preselected: []uuid.UUID{},
	}
	owned := make(map[uuid.UUID]bool, len(categories))
	for _, c := range categories {
		draft.Categories = append(draft.Categories, toCategoryDTO(c))
		owned[c.ID()] = true
	}

	seen := make(map[uuid.UUID]bool, len(query.CategoryIDs))
	for _, raw := range query.CategoryIDs {
		id, err := uuid.Parse(raw)
		if err != nil || !owned[id] || seen[id] {
			continue
		}
		seen[id] = true
		draft.Preselected = append(draft.Preselected, id)
	}
	return draft, nil
}
