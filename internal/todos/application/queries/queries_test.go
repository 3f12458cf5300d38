package queries

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/testutil"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
	"github.com/felixgeelhaar/ordo/internal/todos/infrastructure/persistence"
)

type store struct {
	ctx        context.Context
	items      *persistence.SQLItemRepository
	categories *persistence.SQLCategoryRepository
	owner      uuid.UUID
}

func newStore(t *testing.T) *store {
	t.Helper()
	conn := testutil.NewSQLite(t)
	return &store{
		ctx:        context.Background(),
		items:      persistence.NewSQLItemRepository(conn),
		categories: persistence.NewSQLCategoryRepository(conn),
		owner:      testutil.InsertUser(t, conn, "alice"),
	}
}

func (s *store) category(t *testing.T, name string, ordinal int) *domain.Category {
	t.Helper()
	c, err := domain.NewCategory(s.owner, name, ordinal)
	require.NoError(t, err)
	require.NoError(t, s.categories.Save(s.ctx, c))
	return c
}

func (s *store) item(t *testing.T, title string, ordinal int, configure func(*domain.Item)) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(s.owner, title)
	require.NoError(t, err)
	item.MoveTo(ordinal)
	if configure != nil {
		configure(item)
	}
	require.NoError(t, s.items.Save(s.ctx, item))
	return item
}

func titles(dtos []ItemDTO) []string {
	out := make([]string, len(dtos))
	for i, d := range dtos {
		out[i] = d.Title
	}
	return out
}

func TestListItemsHandler(t *testing.T) {
	s := newStore(t)
	work := s.category(t, "Work", 0)

	s.item(t, "done", 0, func(i *domain.Item) { i.Complete() })
	s.item(t, "second", 1, nil)
	s.item(t, "first", 0, func(i *domain.Item) { i.SetCategories([]uuid.UUID{work.ID()}) })

	handler := NewListItemsHandler(s.items, s.categories)

	t.Run("incomplete first, then ordinal", func(t *testing.T) {
		got, err := handler.Handle(s.ctx, ListItemsQuery{OwnerID: s.owner, ShowCompleted: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second", "done"}, titles(got))
		assert.Equal(t, []CategoryRef{{ID: work.ID(), Name: "Work"}}, got[0].Categories)
		assert.True(t, got[2].Completed)
	})

	t.Run("hides completed by default", func(t *testing.T) {
		got, err := handler.Handle(s.ctx, ListItemsQuery{OwnerID: s.owner})
		require.NoError(t, err)
		assert.Equal(t, []string{"first", "second"}, titles(got))
	})

	t.Run("filters by category", func(t *testing.T) {
		id := work.ID()
		got, err := handler.Handle(s.ctx, ListItemsQuery{OwnerID: s.owner, CategoryID: &id, ShowCompleted: true})
		require.NoError(t, err)
		assert.Equal(t, []string{"first"}, titles(got))
	})

	t.Run("other owners see nothing", func(t *testing.T) {
		got, err := handler.Handle(s.ctx, ListItemsQuery{OwnerID: uuid.New(), ShowCompleted: true})
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestDueSoonHandler(t *testing.T) {
	s := newStore(t)
	now := time.Now().UTC()
	later := now.Add(48 * time.Hour)
	sooner := now.Add(2 * time.Hour)
	past := now.Add(-time.Hour)

	s.item(t, "later", 0, func(i *domain.Item) { i.SetDueAt(&later) })
	s.item(t, "sooner", 1, func(i *domain.Item) { i.SetDueAt(&sooner) })
	s.item(t, "overdue", 2, func(i *domain.Item) { i.SetDueAt(&past) })
	s.item(t, "no date", 3, nil)
	s.item(t, "finished", 4, func(i *domain.Item) {
		i.SetDueAt(&sooner)
		i.Complete()
	})

	got, err := NewDueSoonHandler(s.items, s.categories).Handle(s.ctx, DueSoonQuery{OwnerID: s.owner})
	require.NoError(t, err)

	assert.Equal(t, []string{"overdue", "sooner", "later"}, titles(got))
	assert.True(t, got[0].Overdue)
	assert.False(t, got[1].Overdue)
}

func TestGetItemHandler(t *testing.T) {
	s := newStore(t)
	personal := s.category(t, "Personal", 0)
	item := s.item(t, "call mom", 0, func(i *domain.Item) {
		i.SetEffort(3)
		i.SetCategories([]uuid.UUID{personal.ID()})
	})
	handler := NewGetItemHandler(s.items, s.categories)

	t.Run("owner sees the item", func(t *testing.T) {
		got, err := handler.Handle(s.ctx, GetItemQuery{ItemID: item.ID(), OwnerID: s.owner})
		require.NoError(t, err)
		assert.Equal(t, "call mom", got.Title)
		assert.Equal(t, 3, got.Effort)
		assert.Equal(t, "Personal", got.Categories[0].Name)
	})

	t.Run("foreign item looks missing", func(t *testing.T) {
		_, err := handler.Handle(s.ctx, GetItemQuery{ItemID: item.ID(), OwnerID: uuid.New()})
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})

	t.Run("missing item", func(t *testing.T) {
		_, err := handler.Handle(s.ctx, GetItemQuery{ItemID: uuid.New(), OwnerID: s.owner})
		assert.ErrorIs(t, err, domain.ErrItemNotFound)
	})
}

func TestListCategoriesHandler(t *testing.T) {
	s := newStore(t)
	s.category(t, "Personal", 1)
	s.category(t, "Learning", 1)
	s.category(t, "Work", 0)

	got, err := NewListCategoriesHandler(s.categories).Handle(s.ctx, ListCategoriesQuery{OwnerID: s.owner})
	require.NoError(t, err)

	names := make([]string, len(got))
	for i, c := range got {
		names[i] = c.Name
	}
	assert.Equal(t, []string{"Work", "Learning", "Personal"}, names)
}

func TestItemDraft_Preselection(t *testing.T) {
	s := newStore(t)
	work := s.category(t, "Work", 0)
	home := s.category(t, "Home", 1)

	foreignOwner := uuid.New()
	foreign, err := domain.NewCategory(foreignOwner, "Theirs", 0)
	require.NoError(t, err)

	h := NewItemDraftHandler(s.categories)
	draft, err := h.Handle(s.ctx, ItemDraftQuery{
		OwnerID:     s.owner,
		CategoryIDs: []string{home.ID().String(), "not-a-uuid", foreign.ID().String(), work.ID().String(), home.ID().String()},
	})
	require.NoError(t, err)
	assert.Len(t, draft.Categories, 2)
	assert.Equal(t, []uuid.UUID{home.ID(), work.ID()}, draft.Preselected)

	empty, err := h.Handle(s.ctx, ItemDraftQuery{OwnerID: s.owner})
	require.NoError(t, err)
	assert.Empty(t, empty.Preselected)
	assert.NotNil(t, empty.Preselected)
}
