package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ActiveWindow is how recently a player must have reported state to count
// as playing.
const ActiveWindow = 30 * time.Second

// GameSession is the latest state a player reported.
type GameSession struct {
	UserID     uuid.UUID
	Username   string
	State      json.RawMessage
	Score      int
	Active     bool
	StartedAt  time.Time
	LastSeenAt time.Time
}

// ValidateState accepts a JSON object. An empty state becomes "{}".
func ValidateState(state json.RawMessage) (json.RawMessage, error) {
	if len(state) == 0 {
		return json.RawMessage(`{}`), nil
	}
	var obj map[string]any
	if err := json.Unmarshal(state, &obj); err != nil || obj == nil {
		return nil, ErrInvalidGameState
	}
	return state, nil
}

// IsLive reports whether the session counts as active at now.
func (s GameSession) IsLive(now time.Time) bool {
	return s.Active && now.Sub(s.LastSeenAt) <= ActiveWindow
}
