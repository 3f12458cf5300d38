package domain

import (
	"github.com/google/uuid"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
)

const (
	AggregateType = "ScoreRecord"

	RoutingKeyScoreImproved = "arcade.score.improved"
)

// ScoreImproved is emitted when a player's high score increases.
type ScoreImproved struct {
	shared.BaseEvent
	UserID    uuid.UUID `json:"user_id"`
	Username  string    `json:"username"`
	HighScore int       `json:"high_score"`
	Previous  int       `json:"previous"`
}

func NewScoreImproved(userID uuid.UUID, username string, highScore, previous int) *ScoreImproved {
	return &ScoreImproved{
		BaseEvent: shared.NewBaseEvent(userID, AggregateType, RoutingKeyScoreImproved),
		UserID:    userID,
		Username:  username,
		HighScore: highScore,
		Previous:  previous,
	}
}
