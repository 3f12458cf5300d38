package commands

import (
	"context"
	"errors"
	"time"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
)

// LoginCommand exchanges credentials for a session token.
type LoginCommand struct {
	Username string
	Password string
}

// LoginResult carries the signed token and the account it belongs to.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.User
}

// LoginHandler handles LoginCommand.
type LoginHandler struct {
	users    domain.UserRepository
	sessions domain.SessionRepository
	hasher   domain.PasswordHasher
	tokens   domain.TokenIssuer
	ttl      time.Duration
}

func NewLoginHandler(users domain.UserRepository, sessions domain.SessionRepository, hasher domain.PasswordHasher, tokens domain.TokenIssuer, ttl time.Duration) *LoginHandler {
	return &LoginHandler{users: users, sessions: sessions, hasher: hasher, tokens: tokens, ttl: ttl}
}

// Handle answers ErrInvalidCredentials for unknown users, wrong passwords
// and inactive accounts alike.
func (h *LoginHandler) Handle(ctx context.Context, cmd LoginCommand) (*LoginResult, error) {
	user, err := h.users.FindByUsername(ctx, cmd.Username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := h.hasher.Compare(user.PasswordHash(), cmd.Password); err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrInvalidCredentials
	}

	session := domain.NewSession(user.ID(), h.ttl)
	if err := h.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	token, err := h.tokens.Issue(domain.TokenClaims{
		UserID:    user.ID(),
		SessionID: session.ID,
		Username:  user.Username().String(),
		ExpiresAt: session.ExpiresAt,
	})
	if err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, ExpiresAt: session.ExpiresAt, User: user}, nil
}
