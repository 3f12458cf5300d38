package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ScoreRepository is the score ledger.
type ScoreRepository interface {
	// EnsureRecord creates an empty record if none exists.
	EnsureRecord(ctx context.Context, userID uuid.UUID) error
	// Submit records score as the latest score and raises the high score
	// when score beats it, atomically.
	Submit(ctx context.Context, userID uuid.UUID, score int) (Submission, error)
	Find(ctx context.Context, userID uuid.UUID) (*ScoreRecord, error)
	// Top returns up to limit entries in leaderboard order.
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
	// All returns every record, players who never scored included.
	All(ctx context.Context) ([]LeaderboardEntry, error)
}

// GameSessionRepository stores live game state.
type GameSessionRepository interface {
	Upsert(ctx context.Context, session *GameSession) error
	Deactivate(ctx context.Context, userID uuid.UUID) error
	// ActiveSince lists active sessions seen at or after since, newest first.
	ActiveSince(ctx context.Context, since time.Time, excludeUserID uuid.UUID) ([]GameSession, error)
	FindByUsername(ctx context.Context, username string) (*GameSession, error)
}

// LeaderboardCache mirrors the ledger's high scores.
type LeaderboardCache interface {
	// Raise sets the player's score unless the cached one is higher.
	Raise(ctx context.Context, entry LeaderboardEntry) error
	// Top returns ok=false when the cache holds nothing.
	Top(ctx context.Context, limit int) (entries []LeaderboardEntry, ok bool, err error)
	Rebuild(ctx context.Context, entries []LeaderboardEntry) error
}

// PresenceTracker marks players as online for a short time.
type PresenceTracker interface {
	Touch(ctx context.Context, userID uuid.UUID, ttl time.Duration) error
	Clear(ctx context.Context, userID uuid.UUID) error
	IsOnline(ctx context.Context, userID uuid.UUID) (bool, error)
}
