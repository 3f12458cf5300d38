package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/testutil"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
)

func TestSQLCategoryRepository(t *testing.T) {
	ctx := context.Background()
	conn := testutil.NewSQLite(t)
	repo := NewSQLCategoryRepository(conn)
	items := NewSQLItemRepository(conn)
	owner := testutil.InsertUser(t, conn, "alice")
	other := testutil.InsertUser(t, conn, "bob")

	next, err := repo.NextOrdinal(ctx, owner)
	require.NoError(t, err)
	assert.Zero(t, next)

	work, err := domain.NewCategory(owner, "Work", next)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, work))

	next, err = repo.NextOrdinal(ctx, owner)
	require.NoError(t, err)
	assert.Equal(t, 1, next)

	home, err := domain.NewCategory(owner, "Home", 1)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, home))

	t.Run("duplicate name per owner", func(t *testing.T) {
		dup, err := domain.NewCategory(owner, "Work", 2)
		require.NoError(t, err)
		assert.ErrorIs(t, repo.Save(ctx, dup), domain.ErrDuplicateCategory)

		elsewhere, err := domain.NewCategory(other, "Work", 0)
		require.NoError(t, err)
		assert.NoError(t, repo.Save(ctx, elsewhere))
	})

	t.Run("list and reorder", func(t *testing.T) {
		require.NoError(t, repo.UpdateOrdinals(ctx, owner, map[uuid.UUID]int{home.ID(): 0, work.ID(): 1}))

		list, err := repo.FindByOwner(ctx, owner)
		require.NoError(t, err)
		require.Len(t, list, 2)
		assert.Equal(t, "Home", list[0].Name())
		assert.Equal(t, "Work", list[1].Name())

		found, err := repo.FindByIDs(ctx, other, []uuid.UUID{home.ID()})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("delete detaches items", func(t *testing.T) {
		item, err := domain.NewItem(owner, "Tagged")
		require.NoError(t, err)
		item.SetCategories([]uuid.UUID{work.ID(), home.ID()})
		require.NoError(t, items.Save(ctx, item))

		require.NoError(t, repo.Delete(ctx, work.ID()))

		got, err := items.FindByID(ctx, item.ID())
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{home.ID()}, got.CategoryIDs())

		_, err = repo.FindByID(ctx, work.ID())
		assert.ErrorIs(t, err, domain.ErrCategoryNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, work.ID()), domain.ErrCategoryNotFound)
	})
}
