package domain

import (
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

var (
	// ErrItemNotFound is returned for missing items and for items owned by
	// another user alike.
	ErrItemNotFound             = shared.Classify(shared.ErrNotFound, "item not found")
	ErrCategoryNotFound         = shared.Classify(shared.ErrNotFound, "category not found")
	ErrEmptyTitle               = shared.Classify(shared.ErrValidationFailed, "item title cannot be empty")
	ErrEmptyCategoryName        = shared.Classify(shared.ErrValidationFailed, "category name cannot be empty")
	ErrDuplicateCategory        = shared.Classify(shared.ErrValidationFailed, "category name already exists")
	ErrEmptyOrder               = shared.Classify(shared.ErrMalformedRequest, "order must name at least one id")
	ErrDuplicateOrderID         = shared.Classify(shared.ErrMalformedRequest, "order names the same id twice")
	ErrIncompleteAfterCompleted = shared.Classify(shared.ErrInvalidOrder,
		"cannot place incomplete items after completed items")
)
