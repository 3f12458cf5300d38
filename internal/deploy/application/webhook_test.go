package application

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/deploy/domain"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/testutil"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

const secret = "hook-secret"

type countingRunner struct {
	calls atomic.Int32
	err   error
}

func (r *countingRunner) Run(context.Context) ([]byte, error) {
	r.calls.Add(1)
	return []byte("ok"), r.err
}

type webhookEnv struct {
	handler *WebhookHandler
	runner  *countingRunner
	outbox  *outbox.SQLRepository
	metrics *observability.InMemoryMetrics
}

func newWebhookEnv(t *testing.T, runErr error) *webhookEnv {
	t.Helper()
	conn := testutil.NewSQLite(t)
	env := &webhookEnv{
		runner:  &countingRunner{err: runErr},
		outbox:  outbox.NewSQLRepository(conn),
		metrics: observability.NewInMemoryMetrics(),
	}
	env.handler = NewWebhookHandler(WebhookConfig{Secret: secret}, env.runner, env.outbox, env.metrics, nil)
	return env
}

func signed(event, body string) WebhookCommand {
	return WebhookCommand{EventType: event, Body: []byte(body), Signature: domain.SignatureFor(secret, []byte(body))}
}

func TestWebhookHandler_MainPushDeploys(t *testing.T) {
	env := newWebhookEnv(t, nil)
	ctx := context.Background()

	res, err := env.handler.Handle(ctx, signed("push", `{"ref":"refs/heads/main","pusher":{"name":"ada"},"commits":[{}]}`))
	require.NoError(t, err)
	env.handler.Wait()

	assert.Equal(t, domain.StatusStarted, res.Status)
	assert.Equal(t, "Deployment started for 1 commit(s)", res.Message)
	assert.Equal(t, "ada", res.Pusher)
	assert.Equal(t, int32(1), env.runner.calls.Load())
	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricDeploysTriggered))
	assert.Equal(t, int64(1), env.metrics.GetCounter(observability.MetricOperationTotal, observability.T("operation", "deploy")))

	pending, err := env.outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, domain.RoutingKeyDeployTriggered, pending[0].RoutingKey)
	assert.Equal(t, res.DeploymentID, pending[0].AggregateID.String())
}

func TestWebhookHandler_BadSignatureRejected(t *testing.T) {
	env := newWebhookEnv(t, nil)

	cmd := signed("push", `{"ref":"refs/heads/main"}`)
	cmd.Body = []byte(`{"ref":"refs/heads/main","forged":true}`)

	_, err := env.handler.Handle(context.Background(), cmd)
	assert.ErrorIs(t, err, shared.ErrNotAuthorized)
	assert.Zero(t, env.runner.calls.Load())
}

func TestWebhookHandler_IgnoresOtherRefs(t *testing.T) {
	env := newWebhookEnv(t, nil)
	ctx := context.Background()

	res, err := env.handler.Handle(ctx, signed("push", `{"ref":"refs/heads/feature"}`))
	require.NoError(t, err)
	env.handler.Wait()

	assert.Equal(t, domain.StatusIgnored, res.Status)
	assert.Zero(t, env.runner.calls.Load())

	pending, err := env.outbox.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, pending)
}

func TestWebhookHandler_Ping(t *testing.T) {
	env := newWebhookEnv(t, nil)

	res, err := env.handler.Handle(context.Background(), signed("ping", `{"zen":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPong, res.Status)
}

func TestWebhookHandler_RunnerFailureStillAccepted(t *testing.T) {
	env := newWebhookEnv(t, errors.New("git pull failed"))

	res, err := env.handler.Handle(context.Background(), signed("push", `{"ref":"refs/heads/main"}`))
	require.NoError(t, err)
	env.handler.Wait()

	assert.Equal(t, domain.StatusStarted, res.Status)
	assert.Equal(t, int32(1), env.runner.calls.Load())
}

func TestWebhookHandler_NoSecretRejectsEverything(t *testing.T) {
	h := NewWebhookHandler(WebhookConfig{}, nil, nil, nil, nil)

	_, err := h.Handle(context.Background(), signed("push", `{"ref":"refs/heads/main"}`))
	assert.ErrorIs(t, err, domain.ErrMissingSecret)
}
