package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	errMissing := Classify(ErrNotFound, "widget not found")

	assert.ErrorIs(t, errMissing, ErrNotFound)
	assert.Equal(t, "not found: widget not found", errMissing.Error())

	wrapped := fmt.Errorf("loading widget: %w", errMissing)
	assert.ErrorIs(t, wrapped, errMissing)
	assert.ErrorIs(t, wrapped, ErrNotFound)
}

func TestCategoryOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"not found", Classify(ErrNotFound, "x"), ErrNotFound},
		{"invalid order", fmt.Errorf("reorder: %w", ErrInvalidOrder), ErrInvalidOrder},
		{"malformed", Classify(ErrMalformedRequest, "bad json"), ErrMalformedRequest},
		{"not authorized", ErrNotAuthorized, ErrNotAuthorized},
		{"validation", Classify(ErrValidationFailed, "empty"), ErrValidationFailed},
		{"unauthenticated", fmt.Errorf("token: %w", ErrUnauthenticated), ErrUnauthenticated},
		{"unclassified", errors.New("boom"), nil},
		{"nil", nil, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CategoryOf(tt.err))
		})
	}
}
