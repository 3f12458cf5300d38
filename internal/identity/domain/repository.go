package domain

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository persists accounts.
type UserRepository interface {
	// Save inserts or updates; a taken username yields ErrUsernameTaken.
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)
	FindByUsername(ctx context.Context, username string) (*User, error)
}

// SessionRepository persists login sessions.
type SessionRepository interface {
	Save(ctx context.Context, session *Session) error
	FindByID(ctx context.Context, id uuid.UUID) (*Session, error)
}
