package domain

import (
	"errors"
	"fmt"
)

// Error categories. Context-specific errors wrap one of these so adapters
// can classify them with errors.Is without knowing every sentinel.
var (
	// ErrNotFound covers both missing records and records owned by someone
	// else; callers must not be able to tell the two apart.
	ErrNotFound = errors.New("not found")
	// ErrInvalidOrder means a submitted ordering breaks the completion rule.
	ErrInvalidOrder = errors.New("invalid order")
	// ErrMalformedRequest means the input could not be interpreted.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrNotAuthorized means the caller is known but lacks a capability.
	ErrNotAuthorized = errors.New("not authorized")
	// ErrValidationFailed means a field value was rejected.
	ErrValidationFailed = errors.New("validation failed")
	// ErrUnauthenticated means the caller could not be identified.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Classify builds a sentinel that belongs to the given category.
func Classify(category error, msg string) error {
	return fmt.Errorf("%w: %s", category, msg)
}

// CategoryOf reports which category err belongs to, or nil.
func CategoryOf(err error) error {
	for _, category := range []error{
		ErrNotFound,
		ErrInvalidOrder,
		ErrMalformedRequest,
		ErrNotAuthorized,
		ErrValidationFailed,
		ErrUnauthenticated,
	} {
		if errors.Is(err, category) {
			return category
		}
	}
	return nil
}
