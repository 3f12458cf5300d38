package queries

import (
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

// CategoryRef names a tag on an item.
type CategoryRef struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ItemDTO is the read model for an item.
type ItemDTO struct {
	ID          uuid.UUID     `json:"id"`
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Ordinal     int           `json:"order"`
	Effort      int           `json:"effort"`
	Completed   bool          `json:"completed"`
	CompletedAt *time.Time    `json:"completed_at,omitempty"`
	DueAt       *time.Time    `json:"due_date,omitempty"`
	Overdue     bool          `json:"overdue"`
	Categories  []CategoryRef `json:"categories"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// CategoryDTO is the read model for a category.
type CategoryDTO struct {
	ID      uuid.UUID `json:"id"`
	Name    string    `json:"name"`
	Ordinal int       `json:"order"`
}

func toItemDTO(item *domain.Item, names map[uuid.UUID]string, now time.Time) ItemDTO {
	refs := make([]CategoryRef, 0, len(item.CategoryIDs()))
	for _, id := range item.CategoryIDs() {
		refs = append(refs, CategoryRef{ID: id, Name: names[id]})
	}
	return ItemDTO{
		ID:          item.ID(),
		Title:       item.Title(),
		Description: item.Description(),
		Ordinal:     item.Ordinal(),
		Effort:      item.Effort(),
		Completed:   item.IsCompleted(),
		CompletedAt: item.CompletedAt(),
		DueAt:       item.DueAt(),
		Overdue:     item.IsOverdue(now),
		Categories:  refs,
		CreatedAt:   item.CreatedAt(),
		UpdatedAt:   item.UpdatedAt(),
	}
}

func toCategoryDTO(c *domain.Category) CategoryDTO {
	return CategoryDTO{ID: c.ID(), Name: c.Name(), Ordinal: c.Ordinal()}
}

// categoryNames loads the owner's category names once per query.
func categoryNames(categories []*domain.Category) map[uuid.UUID]string {
	names := make(map[uuid.UUID]string, len(categories))
	for _, c := range categories {
		names[c.ID()] = c.Name()
	}
	return names
}
