// Package queries resolves callers and accounts.
package queries

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
)

// AuthenticateHandler turns a bearer token into a Principal. The session
// and account are re-read on every call so a logout or a capability change
// takes effect immediately.
type AuthenticateHandler struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	tokens   domain.TokenIssuer
}

func NewAuthenticateHandler(users domain.UserRepository, sessions domain.SessionRepository, tokens domain.TokenIssuer) *AuthenticateHandler {
	return &AuthenticateHandler{users: users, sessions: sessions, tokens: tokens}
}

func (h *AuthenticateHandler) Handle(ctx context.Context, token string) (*domain.Principal, error) {
	if token == "" {
		return nil, domain.ErrInvalidToken
	}
	claims, err := h.tokens.Parse(token)
	if err != nil {
		return nil, err
	}

	session, err := h.sessions.FindByID(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrSessionExpired
		}
		return nil, err
	}
	if session.UserID != claims.UserID || !session.IsValid(time.Now().UTC()) {
		return nil, domain.ErrSessionExpired
	}

	user, err := h.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidToken
		}
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrSessionExpired
	}

	return &domain.Principal{
		UserID:    user.ID(),
		Username:  user.Username().String(),
		SessionID: session.ID,
		CanModify: user.CanModify() && !user.IsDemo(),
	}, nil
}
