// Package cache mirrors the leaderboard and player presence in Redis.
package cache

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
)

const (
	LeaderboardKey = "ordo:arcade:leaderboard"
	PlayerNamesKey = "ordo:arcade:players"
	presencePrefix = "ordo:arcade:presence:"
)

// RedisLeaderboard keeps high scores in a sorted set keyed by user id and
// usernames in a hash beside it.
type RedisLeaderboard struct {
	client *redis.Client
}

func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

// Raise uses ZADD GT, so replaying an older event never lowers a score.
func (l *RedisLeaderboard) Raise(ctx context.Context, entry domain.LeaderboardEntry) error {
	member := entry.UserID.String()
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, PlayerNamesKey, member, entry.Username)
		pipe.ZAddGT(ctx, LeaderboardKey, redis.Z{Score: float64(entry.HighScore), Member: member})
		return nil
	})
	if err != nil {
		return fmt.Errorf("raise leaderboard score: %w", err)
	}
	return nil
}

// Top reads the first limit members plus every member tied with the last
// one, then applies the username tie-break locally.
func (l *RedisLeaderboard) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, bool, error) {
	head, err := l.client.ZRevRangeWithScores(ctx, LeaderboardKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, false, fmt.Errorf("read leaderboard: %w", err)
	}
	if len(head) == 0 {
		return nil, false, nil
	}

	window := head
	if len(head) == limit {
		cutoff := strconv.FormatFloat(head[len(head)-1].Score, 'f', -1, 64)
		window, err = l.client.ZRevRangeByScoreWithScores(ctx, LeaderboardKey, &redis.ZRangeBy{
			Min: cutoff,
			Max: "+inf",
		}).Result()
		if err != nil {
			return nil, false, fmt.Errorf("read leaderboard window: %w", err)
		}
	}

	members := make([]string, len(window))
	for i, z := range window {
		members[i] = z.Member.(string)
	}
	names, err := l.client.HMGet(ctx, PlayerNamesKey, members...).Result()
	if err != nil {
		return nil, false, fmt.Errorf("read player names: %w", err)
	}

	entries := make([]domain.LeaderboardEntry, 0, len(window))
	for i, z := range window {
		id, err := uuid.Parse(members[i])
		if err != nil {
			continue
		}
		name, _ := names[i].(string)
		entries = append(entries, domain.LeaderboardEntry{UserID: id, Username: name, HighScore: int(z.Score)})
	}
	domain.SortEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, true, nil
}

// Rebuild replaces the cached leaderboard with entries.
func (l *RedisLeaderboard) Rebuild(ctx context.Context, entries []domain.LeaderboardEntry) error {
	_, err := l.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, LeaderboardKey, PlayerNamesKey)
		for _, e := range entries {
			member := e.UserID.String()
			pipe.HSet(ctx, PlayerNamesKey, member, e.Username)
			pipe.ZAdd(ctx, LeaderboardKey, redis.Z{Score: float64(e.HighScore), Member: member})
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("rebuild leaderboard: %w", err)
	}
	return nil
}

// RedisPresence marks players online with expiring keys.
type RedisPresence struct {
	client *redis.Client
}

func NewRedisPresence(client *redis.Client) *RedisPresence {
	return &RedisPresence{client: client}
}

func presenceKey(userID uuid.UUID) string {
	return presencePrefix + userID.String()
}

func (p *RedisPresence) Touch(ctx context.Context, userID uuid.UUID, ttl time.Duration) error {
	return p.client.Set(ctx, presenceKey(userID), time.Now().UTC().Unix(), ttl).Err()
}

func (p *RedisPresence) Clear(ctx context.Context, userID uuid.UUID) error {
	return p.client.Del(ctx, presenceKey(userID)).Err()
}

// IsOnline reports whether the player's presence key is still alive.
func (p *RedisPresence) IsOnline(ctx context.Context, userID uuid.UUID) (bool, error) {
	n, err := p.client.Exists(ctx, presenceKey(userID)).Result()
	return n == 1, err
}
