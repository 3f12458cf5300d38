package domain

import (
	"time"

	"github.com/google/uuid"
)

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID    uuid.UUID
	Username  string
	SessionID uuid.UUID
	CanModify bool
}

// TokenClaims are the facts signed into a session token.
type TokenClaims struct {
	UserID    uuid.UUID
	SessionID uuid.UUID
	Username  string
	ExpiresAt time.Time
}

// TokenIssuer signs and verifies session tokens.
type TokenIssuer interface {
	Issue(claims TokenClaims) (string, error)
	Parse(token string) (TokenClaims, error)
}

// PasswordHasher hashes and checks passwords.
type PasswordHasher interface {
	Hash(plain string) (string, error)
	Compare(hash, plain string) error
}
