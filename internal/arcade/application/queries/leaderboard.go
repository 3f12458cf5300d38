// Package queries holds the arcade read side.
package queries

import (
	"context"
	"log/slog"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
)

// LeaderboardEntryDTO is one row of the leaderboard.
type LeaderboardEntryDTO struct {
	Rank     int    `json:"rank"`
	Username string `json:"username"`
	Score    int    `json:"score"`
}

// LeaderboardHandler serves top_k from the cache when it has data and
// from SQL otherwise.
type LeaderboardHandler struct {
	scores domain.ScoreRepository
	cache  domain.LeaderboardCache
	logger *slog.Logger
}

// NewLeaderboardHandler creates the handler. cache may be nil.
func NewLeaderboardHandler(scores domain.ScoreRepository, cache domain.LeaderboardCache, logger *slog.Logger) *LeaderboardHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LeaderboardHandler{scores: scores, cache: cache, logger: logger}
}

func (h *LeaderboardHandler) Handle(ctx context.Context, limit int) ([]LeaderboardEntryDTO, error) {
	limit = domain.ClampLimit(limit)

	entries, err := h.fromCache(ctx, limit)
	if entries == nil || err != nil {
		entries, err = h.scores.Top(ctx, limit)
		if err != nil {
			return nil, err
		}
	}

	dtos := make([]LeaderboardEntryDTO, len(entries))
	for i, e := range entries {
		dtos[i] = LeaderboardEntryDTO{Rank: i + 1, Username: e.Username, Score: e.HighScore}
	}
	return dtos, nil
}

func (h *LeaderboardHandler) fromCache(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	if h.cache == nil {
		return nil, nil
	}
	entries, ok, err := h.cache.Top(ctx, limit)
	if err != nil {
		h.logger.Warn("read leaderboard cache, falling back to database", "error", err)
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return entries, nil
}
