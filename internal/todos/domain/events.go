package domain

import (
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

const (
	AggregateTypeItem     = "Item"
	AggregateTypeItemList = "ItemList"
	AggregateTypeCategory = "Category"

	RoutingKeyItemCreated    = "todos.item.created"
	RoutingKeyItemUpdated    = "todos.item.updated"
	RoutingKeyItemCompleted  = "todos.item.completed"
	RoutingKeyItemReopened   = "todos.item.reopened"
	RoutingKeyItemDeleted    = "todos.item.deleted"
	RoutingKeyItemsReordered = "todos.item.reordered"

	RoutingKeyCategoryCreated   = "todos.category.created"
	RoutingKeyCategoryDeleted   = "todos.category.deleted"
	RoutingKeyCategoryReordered = "todos.category.reordered"
)

// ItemCreated is emitted when an item is added.
type ItemCreated struct {
	shared.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Title   string    `json:"title"`
}

func NewItemCreated(itemID, ownerID uuid.UUID, title string) *ItemCreated {
	return &ItemCreated{
		BaseEvent: shared.NewBaseEvent(itemID, AggregateTypeItem, RoutingKeyItemCreated),
		OwnerID:   ownerID,
		Title:     title,
	}
}

// ItemUpdated lists the fields an edit touched.
type ItemUpdated struct {
	shared.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Fields  []string  `json:"fields"`
}

func NewItemUpdated(itemID, ownerID uuid.UUID, fields []string) *ItemUpdated {
	return &ItemUpdated{
		BaseEvent: shared.NewBaseEvent(itemID, AggregateTypeItem, RoutingKeyItemUpdated),
		OwnerID:   ownerID,
		Fields:    fields,
	}
}

type ItemCompleted struct {
	shared.BaseEvent
	OwnerID     uuid.UUID `json:"owner_id"`
	CompletedAt time.Time `json:"completed_at"`
}

func NewItemCompleted(itemID, ownerID uuid.UUID, at time.Time) *ItemCompleted {
	return &ItemCompleted{
		BaseEvent:   shared.NewBaseEvent(itemID, AggregateTypeItem, RoutingKeyItemCompleted),
		OwnerID:     ownerID,
		CompletedAt: at,
	}
}

type ItemReopened struct {
	shared.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

func NewItemReopened(itemID, ownerID uuid.UUID) *ItemReopened {
	return &ItemReopened{
		BaseEvent: shared.NewBaseEvent(itemID, AggregateTypeItem, RoutingKeyItemReopened),
		OwnerID:   ownerID,
	}
}

type ItemDeleted struct {
	shared.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

func NewItemDeleted(itemID, ownerID uuid.UUID) *ItemDeleted {
	return &ItemDeleted{
		BaseEvent: shared.NewBaseEvent(itemID, AggregateTypeItem, RoutingKeyItemDeleted),
		OwnerID:   ownerID,
	}
}

// ItemsReordered is recorded against the owner's list rather than a single
// item.
type ItemsReordered struct {
	shared.BaseEvent
	ItemIDs []uuid.UUID `json:"item_ids"`
}

func NewItemsReordered(ownerID uuid.UUID, itemIDs []uuid.UUID) *ItemsReordered {
	return &ItemsReordered{
		BaseEvent: shared.NewBaseEvent(ownerID, AggregateTypeItemList, RoutingKeyItemsReordered),
		ItemIDs:   itemIDs,
	}
}

type CategoryCreated struct {
	shared.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
	Name    string    `json:"name"`
}

func NewCategoryCreated(categoryID, ownerID uuid.UUID, name string) *CategoryCreated {
	return &CategoryCreated{
		BaseEvent: shared.NewBaseEvent(categoryID, AggregateTypeCategory, RoutingKeyCategoryCreated),
		OwnerID:   ownerID,
		Name:      name,
	}
}

type CategoryDeleted struct {
	shared.BaseEvent
	OwnerID uuid.UUID `json:"owner_id"`
}

func NewCategoryDeleted(categoryID, ownerID uuid.UUID) *CategoryDeleted {
	return &CategoryDeleted{
		BaseEvent: shared.NewBaseEvent(categoryID, AggregateTypeCategory, RoutingKeyCategoryDeleted),
		OwnerID:   ownerID,
	}
}

type CategoriesReordered struct {
	shared.BaseEvent
	CategoryIDs []uuid.UUID `json:"category_ids"`
}

func NewCategoriesReordered(ownerID uuid.UUID, categoryIDs []uuid.UUID) *CategoriesReordered {
	return &CategoriesReordered{
		BaseEvent:   shared.NewBaseEvent(ownerID, AggregateTypeItemList, RoutingKeyCategoryReordered),
		CategoryIDs: categoryIDs,
	}
}
