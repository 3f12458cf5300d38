package domain

import (
	"sort"

	"github.com/google/uuid"
)

// OrderEntry is one position in a submitted ordering.
type OrderEntry struct {
	ID        uuid.UUID
	Completed bool
}

// CheckSequence rejects an empty ordering or one that repeats an id.
func CheckSequence(ids []uuid.UUID) error {
	if len(ids) == 0 {
		return ErrEmptyOrder
	}
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			return ErrDuplicateOrderID
		}
		seen[id] = struct{}{}
	}
	return nil
}

// ValidateOrder enforces that no incomplete item follows a completed one.
func ValidateOrder(entries []OrderEntry) error {
	completedSeen := false
	for _, e := range entries {
		if e.Completed {
			completedSeen = true
			continue
		}
		if completedSeen {
			return ErrIncompleteAfterCompleted
		}
	}
	return nil
}

// Ordinals assigns positions 0..k-1 in sequence order.
func Ordinals(ids []uuid.UUID) map[uuid.UUID]int {
	out := make(map[uuid.UUID]int, len(ids))
	for i, id := range ids {
		out[id] = i
	}
	return out
}

// SortItems applies the default list order: incomplete items first, then
// ordinal, then newest first.
func SortItems(items []*Item) {
	sort.SliceStable(items, func(a, b int) bool {
		x, y := items[a], items[b]
		if x.IsCompleted() != y.IsCompleted() {
			return !x.IsCompleted()
		}
		if x.Ordinal() != y.Ordinal() {
			return x.Ordinal() < y.Ordinal()
		}
		return x.CreatedAt().After(y.CreatedAt())
	})
}
