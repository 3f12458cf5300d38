package commands

import (
	"context"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
)

// LogoutCommand revokes a session.
type LogoutCommand struct {
	SessionID uuid.UUID
}

// LogoutHandler handles LogoutCommand.
type LogoutHandler struct {
	sessions domain.SessionRepository
}

func NewLogoutHandler(sessions domain.SessionRepository) *LogoutHandler {
	return &LogoutHandler{sessions: sessions}
}

func (h *LogoutHandler) Handle(ctx context.Context, cmd LogoutCommand) error {
	session, err := h.sessions.FindByID(ctx, cmd.SessionID)
	if err != nil {
		return err
	}
	session.Revoke()
	return h.sessions.Save(ctx, session)
}
