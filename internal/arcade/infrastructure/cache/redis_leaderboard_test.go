package cache

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/arcade/domain"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	m, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(m.Close)

	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		if cerr := client.Close(); cerr != nil {
			t.Logf("redis close: %v", cerr)
		}
	})
	return m, client
}

func entry(name string, score int) domain.LeaderboardEntry {
	return domain.LeaderboardEntry{UserID: uuid.New(), Username: name, HighScore: score}
}

func usernames(entries []domain.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Username
	}
	return out
}

func TestRedisLeaderboard_EmptyIsMiss(t *testing.T) {
	_, client := newClient(t)
	board := NewRedisLeaderboard(client)

	entries, ok, err := board.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, entries)
}

func TestRedisLeaderboard_RaiseNeverLowers(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	board := NewRedisLeaderboard(client)

	p1 := entry("p1", 100)
	require.NoError(t, board.Raise(ctx, p1))

	p1.HighScore = 50
	require.NoError(t, board.Raise(ctx, p1))

	entries, ok, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, entries, 1)
	assert.Equal(t, 100, entries[0].HighScore)

	p1.HighScore = 150
	require.NoError(t, board.Raise(ctx, p1))
	entries, _, err = board.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, 150, entries[0].HighScore)
}

func TestRedisLeaderboard_Order(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	board := NewRedisLeaderboard(client)

	for _, e := range []domain.LeaderboardEntry{entry("p1", 100), entry("p2", 250), entry("p3", 150)} {
		require.NoError(t, board.Raise(ctx, e))
	}

	entries, ok, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"p2", "p3", "p1"}, usernames(entries))
}

func TestRedisLeaderboard_TiesAtTheCutoff(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	board := NewRedisLeaderboard(client)

	require.NoError(t, board.Rebuild(ctx, []domain.LeaderboardEntry{
		entry("top", 300),
		entry("zoe", 200),
		entry("amy", 200),
		entry("max", 200),
		entry("low", 10),
	}))

	entries, ok, err := board.Top(ctx, 2)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"top", "amy"}, usernames(entries))
}

func TestRedisLeaderboard_RebuildReplaces(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	board := NewRedisLeaderboard(client)

	require.NoError(t, board.Raise(ctx, entry("ghost", 999)))
	require.NoError(t, board.Rebuild(ctx, []domain.LeaderboardEntry{entry("real", 5)}))

	entries, _, err := board.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"real"}, usernames(entries))
}

func TestRedisPresence(t *testing.T) {
	ctx := context.Background()
	m, client := newClient(t)
	presence := NewRedisPresence(client)
	user := uuid.New()

	require.NoError(t, presence.Touch(ctx, user, 30*time.Second))
	assert.Equal(t, 30*time.Second, m.TTL(presenceKey(user)))

	online, err := presence.IsOnline(ctx, user)
	require.NoError(t, err)
	assert.True(t, online)

	m.FastForward(31 * time.Second)
	online, err = presence.IsOnline(ctx, user)
	require.NoError(t, err)
	assert.False(t, online)

	require.NoError(t, presence.Touch(ctx, user, 30*time.Second))
	require.NoError(t, presence.Clear(ctx, user))
	online, err = presence.IsOnline(ctx, user)
	require.NoError(t, err)
	assert.False(t, online)
}
