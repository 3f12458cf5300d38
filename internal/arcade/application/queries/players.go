package queries

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
)

// ActivePlayerDTO is a player currently in a game.
type ActivePlayerDTO struct {
	Username   string    `json:"username"`
	Score      int       `json:"score"`
	LastSeenAt time.Time `json:"last_seen_at"`
}

// PlayerStateDTO is what spectators see.
type PlayerStateDTO struct {
	Username   string          `json:"username"`
	State      json.RawMessage `json:"state"`
	Score      int             `json:"score"`
	Active     bool            `json:"is_active"`
	Online     bool            `json:"online"`
	LastSeenAt time.Time       `json:"last_seen_at"`
}

// PlayersHandler answers the spectator queries.
type PlayersHandler struct {
	sessions domain.GameSessionRepository
	presence domain.PresenceTracker
}

// NewPlayersHandler creates the handler. presence may be nil.
func NewPlayersHandler(sessions domain.GameSessionRepository, presence domain.PresenceTracker) *PlayersHandler {
	return &PlayersHandler{sessions: sessions, presence: presence}
}

// Active lists players seen within the active window, excluding the caller.
func (h *PlayersHandler) Active(ctx context.Context, excludeUserID uuid.UUID) ([]ActivePlayerDTO, error) {
	since := time.Now().UTC().Add(-domain.ActiveWindow)
	sessions, err := h.sessions.ActiveSince(ctx, since, excludeUserID)
	if err != nil {
		return nil, err
	}

	dtos := make([]ActivePlayerDTO, len(sessions))
	for i, s := range sessions {
		dtos[i] = ActivePlayerDTO{Username: s.Username, Score: s.Score, LastSeenAt: s.LastSeenAt}
	}
	return dtos, nil
}

// State returns the last stored game of username.
func (h *PlayersHandler) State(ctx context.Context, username string) (*PlayerStateDTO, error) {
	s, err := h.sessions.FindByUsername(ctx, username)
	if errors.Is(err, domain.ErrNoGameSession) {
		return nil, domain.ErrPlayerNotFound
	}
	if err != nil {
		return nil, err
	}

	dto := &PlayerStateDTO{
		Username:   s.Username,
		State:      s.State,
		Score:      s.Score,
		Active:     s.IsLive(time.Now().UTC()),
		LastSeenAt: s.LastSeenAt,
	}
	if h.presence != nil {
		// A presence lookup failure only hides the online badge.
		dto.Online, _ = h.presence.IsOnline(ctx, s.UserID)
	}
	return dto, nil
}
