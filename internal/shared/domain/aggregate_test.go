package domain_test

import (
	"testing"
	"time"

	"github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type testAggregate struct {
	domain.BaseAggregateRoot
}

type testEvent struct {
	domain.BaseEvent
}

func TestNewBaseAggregateRoot(t *testing.T) {
	agg := domain.NewBaseAggregateRoot()

	assert.NotEqual(t, uuid.Nil, agg.ID())
	assert.Equal(t, agg.CreatedAt(), agg.UpdatedAt())
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot()}
	event := testEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "Test", "test.created")}

	agg.AddDomainEvent(event)
	assert.Len(t, agg.DomainEvents(), 1)
	assert.Equal(t, "test.created", agg.DomainEvents()[0].RoutingKey())
	assert.Equal(t, agg.ID(), agg.DomainEvents()[0].AggregateID())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseEntity_Touch(t *testing.T) {
	t.Run("moves updated_at forward", func(t *testing.T) {
		past := time.Now().UTC().Add(-time.Hour)
		entity := domain.RehydrateBaseEntity(uuid.New(), past, past)

		entity.Touch()

		assert.True(t, entity.UpdatedAt().After(past))
		assert.Equal(t, past, entity.CreatedAt())
	})

	t.Run("never moves updated_at backwards", func(t *testing.T) {
		future := time.Now().UTC().Add(time.Hour)
		entity := domain.RehydrateBaseEntity(uuid.New(), future, future)

		entity.Touch()

		assert.Equal(t, future, entity.UpdatedAt())
	})
}

func TestBaseEvent_Metadata(t *testing.T) {
	event := testEvent{BaseEvent: domain.NewBaseEvent(uuid.New(), "Test", "test.updated")}
	meta := domain.EventMetadata{CorrelationID: uuid.New(), UserID: uuid.New()}

	event.SetMetadata(meta)

	assert.Equal(t, meta, event.Metadata())
	assert.NotEqual(t, uuid.Nil, event.EventID())
	assert.False(t, event.OccurredAt().IsZero())
}
