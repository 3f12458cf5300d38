package eventbus

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalBus_Publish(t *testing.T) {
	bus := NewLocalBus(nil)
	var got []string
	bus.Subscribe("arcade.score.improved", func(ctx context.Context, key string, payload []byte) error {
		got = append(got, key+":"+string(payload))
		return nil
	})

	require.NoError(t, bus.Publish(context.Background(), "arcade.score.improved", []byte(`{"high_score":10}`)))
	require.NoError(t, bus.Publish(context.Background(), "todos.item.created", []byte(`{}`)))

	assert.Equal(t, []string{`arcade.score.improved:{"high_score":10}`}, got)
}

func TestLocalBus_HandlerError(t *testing.T) {
	bus := NewLocalBus(nil)
	boom := errors.New("boom")
	bus.Subscribe("k", func(ctx context.Context, key string, payload []byte) error { return boom })

	err := bus.Publish(context.Background(), "k", nil)
	assert.ErrorIs(t, err, boom)
}

type recordingPublisher struct {
	keys []string
	err  error
}

func (r *recordingPublisher) Publish(ctx context.Context, key string, payload []byte) error {
	r.keys = append(r.keys, key)
	return r.err
}

func (r *recordingPublisher) Close() error { return nil }

func TestFanoutPublisher(t *testing.T) {
	first := &recordingPublisher{}
	second := &recordingPublisher{}
	fanout := NewFanoutPublisher(first, second)

	require.NoError(t, fanout.Publish(context.Background(), "k", nil))
	assert.Equal(t, []string{"k"}, first.keys)
	assert.Equal(t, []string{"k"}, second.keys)

	first.err = errors.New("broker down")
	assert.Error(t, fanout.Publish(context.Background(), "k2", nil))
	assert.Equal(t, []string{"k"}, second.keys, "stops at the first failure")
	assert.NoError(t, fanout.Close())
}

func TestNoopPublisher(t *testing.T) {
	p := NewNoopPublisher(nil)
	assert.NoError(t, p.Publish(context.Background(), "k", []byte("x")))
	assert.NoError(t, p.Close())
}
