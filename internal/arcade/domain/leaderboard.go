package domain

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultLeaderboardLimit = 10
	MaxLeaderboardLimit     = 100
)

// LeaderboardEntry is one ranked player.
type LeaderboardEntry struct {
	UserID    uuid.UUID
	Username  string
	HighScore int
	UpdatedAt time.Time
}

// ClampLimit maps out-of-range limits to the default rather than the
// nearest bound.
func ClampLimit(limit int) int {
	if limit < 1 || limit > MaxLeaderboardLimit {
		return DefaultLeaderboardLimit
	}
	return limit
}

// SortEntries orders by score descending, then username ascending.
func SortEntries(entries []LeaderboardEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].HighScore != entries[j].HighScore {
			return entries[i].HighScore > entries[j].HighScore
		}
		return entries[i].Username < entries[j].Username
	})
}
