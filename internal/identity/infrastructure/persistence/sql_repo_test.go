package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/internal/testutil"
)

func mustUser(t *testing.T, name string) *domain.User {
	t.Helper()
	username, err := domain.NewUsername(name)
	require.NoError(t, err)
	email, err := domain.NewEmail(name + "@example.com")
	require.NoError(t, err)
	return domain.NewUser(username, email, "hash")
}

func TestSQLUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewSQLUserRepository(testutil.NewSQLite(t))

	alice := mustUser(t, "alice")
	require.NoError(t, repo.Save(ctx, alice))

	t.Run("find by username", func(t *testing.T) {
		got, err := repo.FindByUsername(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID(), got.ID())
		assert.Equal(t, "alice@example.com", got.Email().String())
		assert.True(t, got.CanModify())
		assert.True(t, got.IsActive())
	})

	t.Run("update persists capability", func(t *testing.T) {
		alice.RevokeModify()
		require.NoError(t, repo.Save(ctx, alice))

		got, err := repo.FindByID(ctx, alice.ID())
		require.NoError(t, err)
		assert.False(t, got.CanModify())
	})

	t.Run("duplicate username", func(t *testing.T) {
		err := repo.Save(ctx, mustUser(t, "alice"))
		assert.ErrorIs(t, err, domain.ErrUsernameTaken)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := repo.FindByUsername(ctx, "nobody")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		_, err = repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
	})
}

func TestSQLSessionRepository(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewSQLite(t)
	users := NewSQLUserRepository(conn)
	sessions := NewSQLSessionRepository(conn)

	user := mustUser(t, "bob")
	require.NoError(t, users.Save(ctx, user))

	session := domain.NewSession(user.ID(), time.Hour)
	require.NoError(t, sessions.Save(ctx, session))

	got, err := sessions.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID(), got.UserID)
	assert.Nil(t, got.RevokedAt)
	assert.True(t, got.IsValid(time.Now()))

	session.Revoke()
	require.NoError(t, sessions.Save(ctx, session))

	got, err = sessions.FindByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, got.RevokedAt)
	assert.False(t, got.IsValid(time.Now()))

	_, err = sessions.FindByID(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}
