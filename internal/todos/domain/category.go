package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

// Category is a user-defined label attached to items.
type Category struct {
	shared.BaseAggregateRoot
	ownerID uuid.UUID
	name    string
	ordinal int
}

// NewCategory creates a category at the given position.
func NewCategory(ownerID uuid.UUID, name string, ordinal int) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyCategoryName
	}

	c := &Category{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		name:              name,
		ordinal:           ordinal,
	}
	c.AddDomainEvent(NewCategoryCreated(c.ID(), ownerID, name))
	return c, nil
}

// RehydrateCategory rebuilds a category from storage.
func RehydrateCategory(id, ownerID uuid.UUID, name string, ordinal int, createdAt, updatedAt time.Time) *Category {
	return &Category{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(shared.RehydrateBaseEntity(id, createdAt, updatedAt)),
		ownerID:           ownerID,
		name:              name,
		ordinal:           ordinal,
	}
}

func (c *Category) OwnerID() uuid.UUID { return c.ownerID }
func (c *Category) Name() string       { return c.name }
func (c *Category) Ordinal() int       { return c.ordinal }

func (c *Category) IsOwnedBy(userID uuid.UUID) bool {
	return c.ownerID == userID
}

// MarkDeleted records the deletion event.
func (c *Category) MarkDeleted() {
	c.AddDomainEvent(NewCategoryDeleted(c.ID(), c.ownerID))
}
