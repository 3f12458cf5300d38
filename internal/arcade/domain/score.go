// Package domain models the arcade: monotonic high scores, the leaderboard
// and live game sessions.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoreRecord is a player's best and latest score.
type ScoreRecord struct {
	UserID       uuid.UUID
	HighScore    int
	CurrentScore int
	UpdatedAt    time.Time
}

// Submission is the outcome of submitting a score.
type Submission struct {
	// Accepted is true exactly when the stored high score increased.
	Accepted  bool
	HighScore int
	Previous  int
}

// ValidateScore rejects negative scores.
func ValidateScore(score int) error {
	if score < 0 {
		return ErrNegativeScore
	}
	return nil
}
