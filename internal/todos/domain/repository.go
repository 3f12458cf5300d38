package domain

import (
	"context"

	"github.com/google/uuid"
)

// ItemFilter narrows FindByOwner.
type ItemFilter struct {
	CategoryID       *uuid.UUID
	IncludeCompleted bool
}

// ItemRepository persists items. Lookups by owner never return another
// owner's items.
type ItemRepository interface {
	// Save inserts or updates the item and replaces its tag set.
	Save(ctx context.Context, item *Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*Item, error)
	// FindByOwner returns items in the default list order.
	FindByOwner(ctx context.Context, ownerID uuid.UUID, filter ItemFilter) ([]*Item, error)
	// FindByIDs returns the owner's items among ids; unknown ids are skipped.
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*Item, error)
	UpdateOrdinals(ctx context.Context, ownerID uuid.UUID, ordinals map[uuid.UUID]int) error
	Delete(ctx context.Context, id uuid.UUID) error
	// LockOwner serialises writers for ownerID until the transaction ends.
	LockOwner(ctx context.Context, ownerID uuid.UUID) error
}

// CategoryRepository persists categories.
type CategoryRepository interface {
	Save(ctx context.Context, category *Category) error
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	// FindByOwner returns categories by ordinal, then name.
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]*Category, error)
	FindByIDs(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) ([]*Category, error)
	// NextOrdinal is one past the owner's highest ordinal, or 0.
	NextOrdinal(ctx context.Context, ownerID uuid.UUID) (int, error)
	UpdateOrdinals(ctx context.Context, ownerID uuid.UUID, ordinals map[uuid.UUID]int) error
	// Delete removes the category and detaches it from every item.
	Delete(ctx context.Context, id uuid.UUID) error
	LockOwner(ctx context.Context, ownerID uuid.UUID) error
}
