// Package domain models the todo list: items, categories and the rules
// for ordering them.
package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

// Item is one entry in an owner's todo list.
type Item struct {
	shared.BaseAggregateRoot
	ownerID     uuid.UUID
	title       string
	description string
	ordinal     int
	effort      int
	completedAt *time.Time
	dueAt       *time.Time
	categoryIDs []uuid.UUID
}

// NewItem creates an incomplete item at ordinal 0.
func NewItem(ownerID uuid.UUID, title string) (*Item, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrEmptyTitle
	}

	item := &Item{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		ownerID:           ownerID,
		title:             title,
	}
	item.AddDomainEvent(NewItemCreated(item.ID(), ownerID, title))
	return item, nil
}

// ItemState is the persisted form of an Item.
type ItemState struct {
	ID          uuid.UUID
	OwnerID     uuid.UUID
	Title       string
	Description string
	Ordinal     int
	Effort      int
	CompletedAt *time.Time
	DueAt       *time.Time
	CategoryIDs []uuid.UUID
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// RehydrateItem rebuilds an item from storage without recording events.
func RehydrateItem(s ItemState) *Item {
	return &Item{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(
			shared.RehydrateBaseEntity(s.ID, s.CreatedAt, s.UpdatedAt)),
		ownerID:     s.OwnerID,
		title:       s.Title,
		description: s.Description,
		ordinal:     s.Ordinal,
		effort:      s.Effort,
		completedAt: s.CompletedAt,
		dueAt:       s.DueAt,
		categoryIDs: s.CategoryIDs,
	}
}

func (i *Item) OwnerID() uuid.UUID      { return i.ownerID }
func (i *Item) Title() string           { return i.title }
func (i *Item) Description() string     { return i.description }
func (i *Item) Ordinal() int            { return i.ordinal }
func (i *Item) Effort() int             { return i.effort }
func (i *Item) CompletedAt() *time.Time { return i.completedAt }
func (i *Item) DueAt() *time.Time       { return i.dueAt }
func (i *Item) IsCompleted() bool       { return i.completedAt != nil }

// CategoryIDs returns a copy of the item's tags.
func (i *Item) CategoryIDs() []uuid.UUID {
	return append([]uuid.UUID(nil), i.categoryIDs...)
}

// IsOwnedBy reports whether userID may see and change the item.
func (i *Item) IsOwnedBy(userID uuid.UUID) bool {
	return i.ownerID == userID
}

// IsOverdue reports whether an incomplete item is past its due date.
func (i *Item) IsOverdue(now time.Time) bool {
	return !i.IsCompleted() && i.dueAt != nil && i.dueAt.Before(now)
}

// State exports the item for persistence.
func (i *Item) State() ItemState {
	return ItemState{
		ID:          i.ID(),
		OwnerID:     i.ownerID,
		Title:       i.title,
		Description: i.description,
		Ordinal:     i.ordinal,
		Effort:      i.effort,
		CompletedAt: i.completedAt,
		DueAt:       i.dueAt,
		CategoryIDs: i.CategoryIDs(),
		CreatedAt:   i.CreatedAt(),
		UpdatedAt:   i.UpdatedAt(),
	}
}

// Rename replaces the title.
func (i *Item) Rename(title string) error {
	title = strings.TrimSpace(title)
	if title == "" {
		return ErrEmptyTitle
	}
	i.title = title
	i.Touch()
	return nil
}

func (i *Item) SetDescription(description string) {
	i.description = strings.TrimSpace(description)
	i.Touch()
}

func (i *Item) SetDueAt(dueAt *time.Time) {
	if dueAt != nil {
		utc := dueAt.UTC()
		dueAt = &utc
	}
	i.dueAt = dueAt
	i.Touch()
}

// SetEffort stores effort clamped to the valid range.
func (i *Item) SetEffort(effort int) {
	i.effort = ClampEffort(effort)
	i.Touch()
}

// SetCategories replaces the tag set, dropping duplicates.
func (i *Item) SetCategories(ids []uuid.UUID) {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	tags := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		tags = append(tags, id)
	}
	i.categoryIDs = tags
	i.Touch()
}

// MarkUpdated records which fields an edit changed.
func (i *Item) MarkUpdated(fields ...string) {
	i.AddDomainEvent(NewItemUpdated(i.ID(), i.ownerID, fields))
}

// Toggle flips completion and reports the new state.
func (i *Item) Toggle() bool {
	if i.IsCompleted() {
		i.completedAt = nil
		i.Touch()
		i.AddDomainEvent(NewItemReopened(i.ID(), i.ownerID))
		return false
	}
	i.complete()
	return true
}

// Complete marks the item done. Unlike Toggle it always sets a fresh
// completion time, even on an item that is already complete.
func (i *Item) Complete() {
	i.complete()
}

func (i *Item) complete() {
	now := time.Now().UTC()
	i.completedAt = &now
	i.Touch()
	i.AddDomainEvent(NewItemCompleted(i.ID(), i.ownerID, now))
}

// MoveTo sets the ordinal.
func (i *Item) MoveTo(ordinal int) {
	i.ordinal = ordinal
	i.Touch()
}

// MarkDeleted records the deletion event; the repository removes the row.
func (i *Item) MarkDeleted() {
	i.AddDomainEvent(NewItemDeleted(i.ID(), i.ownerID))
}
