package domain

import (
	"time"

	"github.com/google/uuid"
)

// Session is one login. Tokens name their session so a logout revokes them.
type Session struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	CreatedAt time.Time
	ExpiresAt time.Time
	RevokedAt *time.Time
}

// NewSession starts a session that lasts ttl.
func NewSession(userID uuid.UUID, ttl time.Duration) *Session {
	now := time.Now().UTC()
	return &Session{
		ID:        uuid.New(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsValid reports whether the session can still authenticate at now.
func (s *Session) IsValid(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// Revoke ends the session. Revoking twice keeps the first timestamp.
func (s *Session) Revoke() {
	if s.RevokedAt != nil {
		return
	}
	now := time.Now().UTC()
	s.RevokedAt = &now
}
