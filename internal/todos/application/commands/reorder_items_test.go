package commands

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/testutil"
	"github.com/felixgeelhaar/ordo/internal/todos/domain"
	"github.com/felixgeelhaar/ordo/internal/todos/infrastructure/persistence"
)

type reorderEnv struct {
	ctx     context.Context
	items   *persistence.SQLItemRepository
	outbox  *outbox.SQLRepository
	handler *ReorderItemsHandler
	toggle  *ToggleItemHandler
	owner   uuid.UUID
	other   uuid.UUID
}

func newReorderEnv(t *testing.T) *reorderEnv {
	t.Helper()
	return newReorderEnvOn(t, testutil.NewSQLite(t))
}

func newReorderEnvOn(t *testing.T, conn database.Connection) *reorderEnv {
	t.Helper()
	items := persistence.NewSQLItemRepository(conn)
	outboxRepo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)

	return &reorderEnv{
		ctx:     context.Background(),
		items:   items,
		outbox:  outboxRepo,
		handler: NewReorderItemsHandler(items, outboxRepo, uow),
		toggle:  NewToggleItemHandler(items, outboxRepo, uow),
		owner:   testutil.InsertUser(t, conn, "alice"),
		other:   testutil.InsertUser(t, conn, "mallory"),
	}
}

func (e *reorderEnv) add(t *testing.T, owner uuid.UUID, title string, ordinal int, completed bool) *domain.Item {
	t.Helper()
	item, err := domain.NewItem(owner, title)
	require.NoError(t, err)
	item.MoveTo(ordinal)
	if completed {
		item.Complete()
	}
	require.NoError(t, e.items.Save(e.ctx, item))
	return item
}

func (e *reorderEnv) ordinals(t *testing.T, items ...*domain.Item) []int {
	t.Helper()
	out := make([]int, len(items))
	for i, item := range items {
		got, err := e.items.FindByID(e.ctx, item.ID())
		require.NoError(t, err)
		out[i] = got.Ordinal()
	}
	return out
}

func TestReorderItems_CompletionRule(t *testing.T) {
	env := newReorderEnv(t)
	a := env.add(t, env.owner, "A", 5, false)
	b := env.add(t, env.owner, "B", 6, true)

	err := env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{b.ID(), a.ID()}})
	assert.ErrorIs(t, err, shared.ErrInvalidOrder)
	assert.Equal(t, []int{5, 6}, env.ordinals(t, a, b), "rejected reorder writes nothing")

	err = env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{a.ID(), b.ID()}})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1}, env.ordinals(t, a, b))

	pending, err := env.outbox.GetUnpublished(env.ctx, 100)
	require.NoError(t, err)
	assert.Equal(t, domain.RoutingKeyItemsReordered, pending[len(pending)-1].RoutingKey)
}

func TestReorderItems_UnnamedItemsKeepOrdinals(t *testing.T) {
	env := newReorderEnv(t)
	a := env.add(t, env.owner, "A", 3, false)
	b := env.add(t, env.owner, "B", 4, false)
	c := env.add(t, env.owner, "C", 9, false)

	require.NoError(t, env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{b.ID(), a.ID()}}))

	assert.Equal(t, []int{1, 0, 9}, env.ordinals(t, a, b, c))
}

func TestReorderItems_Ownership(t *testing.T) {
	env := newReorderEnv(t)
	mine := env.add(t, env.owner, "mine", 2, false)
	theirs := env.add(t, env.other, "theirs", 7, false)

	err := env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{theirs.ID(), mine.ID()}})
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.Equal(t, []int{2, 7}, env.ordinals(t, mine, theirs))

	err = env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{mine.ID(), uuid.New()}})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)

	_, err = env.toggle.Handle(env.ctx, ToggleItemCommand{ItemID: theirs.ID(), OwnerID: env.owner})
	assert.ErrorIs(t, err, domain.ErrItemNotFound)
	got, err := env.items.FindByID(env.ctx, theirs.ID())
	require.NoError(t, err)
	assert.False(t, got.IsCompleted())
}

func TestReorderItems_MalformedSequence(t *testing.T) {
	env := newReorderEnv(t)
	a := env.add(t, env.owner, "A", 0, false)

	err := env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner})
	assert.ErrorIs(t, err, shared.ErrMalformedRequest)

	err = env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{a.ID(), a.ID()}})
	assert.ErrorIs(t, err, shared.ErrMalformedRequest)
}

func TestReorderItems_UsesCurrentCompletionState(t *testing.T) {
	env := newReorderEnv(t)
	a := env.add(t, env.owner, "A", 0, false)
	b := env.add(t, env.owner, "B", 1, false)

	require.NoError(t, env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{b.ID(), a.ID()}}))

	_, err := env.toggle.Handle(env.ctx, ToggleItemCommand{ItemID: b.ID(), OwnerID: env.owner})
	require.NoError(t, err)

	err = env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: []uuid.UUID{b.ID(), a.ID()}})
	assert.ErrorIs(t, err, domain.ErrIncompleteAfterCompleted)
}

func TestReorderItems_ConcurrentWithToggle(t *testing.T) {
	env := newReorderEnvOn(t, testutil.NewSQLiteFile(t))
	a := env.add(t, env.owner, "A", 5, false)
	b := env.add(t, env.owner, "B", 6, false)
	c := env.add(t, env.owner, "C", 7, true)
	order := []uuid.UUID{a.ID(), b.ID(), c.ID()}

	const rounds = 40
	var reordered, rejected atomic.Int32
	var g errgroup.Group
	for i := 0; i < rounds; i++ {
		g.Go(func() error {
			_, err := env.toggle.Handle(env.ctx, ToggleItemCommand{ItemID: a.ID(), OwnerID: env.owner})
			return err
		})
		g.Go(func() error {
			err := env.handler.Handle(env.ctx, ReorderItemsCommand{OwnerID: env.owner, ItemIDs: order})
			switch {
			case err == nil:
				reordered.Add(1)
			case errors.Is(err, domain.ErrIncompleteAfterCompleted):
				rejected.Add(1)
			default:
				return err
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
	assert.Equal(t, int32(rounds), reordered.Load()+rejected.Load())

	got, err := env.items.FindByID(env.ctx, a.ID())
	require.NoError(t, err)
	assert.False(t, got.IsCompleted(), "an even number of toggles restores the item")

	if reordered.Load() > 0 {
		assert.Equal(t, []int{0, 1, 2}, env.ordinals(t, a, b, c))
	} else {
		assert.Equal(t, []int{5, 6, 7}, env.ordinals(t, a, b, c))
	}

	pending, err := env.outbox.GetUnpublished(env.ctx, 1000)
	require.NoError(t, err)
	var toggles, reorders int
	for _, msg := range pending {
		switch msg.RoutingKey {
		case domain.RoutingKeyItemCompleted, domain.RoutingKeyItemReopened:
			toggles++
		case domain.RoutingKeyItemsReordered:
			reorders++
		}
	}
	assert.Equal(t, rounds, toggles)
	assert.Equal(t, int(reordered.Load()), reorders, "rejected reorders record nothing")
}
