package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
)

// UpdateGameStateCommand publishes the caller's live game.
type UpdateGameStateCommand struct {
	UserID uuid.UUID
	State  json.RawMessage
	Score  int
}

// EndGameCommand marks the caller's game as over.
type EndGameCommand struct {
	UserID uuid.UUID
}

// GameStateHandler handles UpdateGameStateCommand and EndGameCommand.
// Presence is best effort; the session row is the source of truth.
type GameStateHandler struct {
	sessions domain.GameSessionRepository
	presence domain.PresenceTracker
	logger   *slog.Logger
}

// NewGameStateHandler creates the handler. presence may be nil.
func NewGameStateHandler(sessions domain.GameSessionRepository, presence domain.PresenceTracker, logger *slog.Logger) *GameStateHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &GameStateHandler{sessions: sessions, presence: presence, logger: logger}
}

func (h *GameStateHandler) Update(ctx context.Context, cmd UpdateGameStateCommand) error {
	state, err := domain.ValidateState(cmd.State)
	if err != nil {
		return err
	}
	if err := domain.ValidateScore(cmd.Score); err != nil {
		return err
	}

	now := time.Now().UTC()
	if err := h.sessions.Upsert(ctx, &domain.GameSession{
		UserID:     cmd.UserID,
		State:      state,
		Score:      cmd.Score,
		Active:     true,
		StartedAt:  now,
		LastSeenAt: now,
	}); err != nil {
		return err
	}

	if h.presence != nil {
		if err := h.presence.Touch(ctx, cmd.UserID, domain.ActiveWindow); err != nil {
			h.logger.Warn("touch presence", "user_id", cmd.UserID, "error", err)
		}
	}
	return nil
}

func (h *GameStateHandler) End(ctx context.Context, cmd EndGameCommand) error {
	if err := h.sessions.Deactivate(ctx, cmd.UserID); err != nil {
		return err
	}
	if h.presence != nil {
		if err := h.presence.Clear(ctx, cmd.UserID); err != nil {
			h.logger.Warn("clear presence", "user_id", cmd.UserID, "error", err)
		}
	}
	return nil
}
