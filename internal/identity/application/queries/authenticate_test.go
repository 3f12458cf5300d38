package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/felixgeelhaar/ordo/internal/identity/application/commands"
	"github.com/felixgeelhaar/ordo/internal/identity/application/queries"
	"github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/internal/identity/infrastructure/persistence"
	"github.com/felixgeelhaar/ordo/internal/identity/infrastructure/security"
	shared "github.com/felixgeelhaar/ordo/internal/shared/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/outbox"
	"github.com/felixgeelhaar/ordo/internal/testutil"
)

type harness struct {
	signup  *commands.SignupHandler
	login   *commands.LoginHandler
	logout  *commands.LogoutHandler
	modify  *commands.SetModifyHandler
	demo    *commands.EnsureDemoUserHandler
	auth    *queries.AuthenticateHandler
	getUser *queries.GetUserHandler
}

func newHarness(t *testing.T, ttl time.Duration) *harness {
	t.Helper()
	conn := testutil.NewSQLite(t)
	users := persistence.NewSQLUserRepository(conn)
	sessions := persistence.NewSQLSessionRepository(conn)
	outboxRepo := outbox.NewSQLRepository(conn)
	uow := database.NewUnitOfWork(conn)
	hasher := security.NewBcryptHasher(bcrypt.MinCost)
	tokens := security.NewJWTIssuer("test-secret")

	return &harness{
		signup:  commands.NewSignupHandler(users, hasher, nil, outboxRepo, uow),
		login:   commands.NewLoginHandler(users, sessions, hasher, tokens, ttl),
		logout:  commands.NewLogoutHandler(sessions),
		modify:  commands.NewSetModifyHandler(users, outboxRepo, uow),
		demo:    commands.NewEnsureDemoUserHandler(users, hasher, nil, outboxRepo, uow),
		auth:    queries.NewAuthenticateHandler(users, sessions, tokens),
		getUser: queries.NewGetUserHandler(users),
	}
}

func TestAuthenticate_SessionLifecycle(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)

	userID, err := h.signup.Handle(ctx, commands.SignupCommand{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	result, err := h.login.Handle(ctx, commands.LoginCommand{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	principal, err := h.auth.Handle(ctx, result.Token)
	require.NoError(t, err)
	assert.Equal(t, userID, principal.UserID)
	assert.Equal(t, "alice", principal.Username)
	assert.True(t, principal.CanModify)

	me, err := h.getUser.Handle(ctx, principal.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", me.Username)

	require.NoError(t, h.logout.Handle(ctx, commands.LogoutCommand{SessionID: principal.SessionID}))

	_, err = h.auth.Handle(ctx, result.Token)
	assert.ErrorIs(t, err, domain.ErrSessionExpired)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}

func TestAuthenticate_CapabilityIsReadPerRequest(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)

	_, err := h.signup.Handle(ctx, commands.SignupCommand{Username: "bob", Password: "secret1"})
	require.NoError(t, err)
	result, err := h.login.Handle(ctx, commands.LoginCommand{Username: "bob", Password: "secret1"})
	require.NoError(t, err)

	changed, err := h.modify.Handle(ctx, commands.SetModifyCommand{Username: "bob", CanModify: false})
	require.NoError(t, err)
	assert.True(t, changed)

	principal, err := h.auth.Handle(ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, principal.CanModify)
}

func TestAuthenticate_DemoUserIsReadOnly(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, time.Hour)

	first, err := h.demo.Handle(ctx)
	require.NoError(t, err)
	assert.True(t, first.Created)

	again, err := h.demo.Handle(ctx)
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, first.User.ID(), again.User.ID())

	changed, err := h.modify.Handle(ctx, commands.SetModifyCommand{Username: domain.DemoUsername, CanModify: true})
	require.NoError(t, err)
	assert.False(t, changed)

	result, err := h.login.Handle(ctx, commands.LoginCommand{Username: domain.DemoUsername, Password: commands.DemoPassword})
	require.NoError(t, err)

	principal, err := h.auth.Handle(ctx, result.Token)
	require.NoError(t, err)
	assert.False(t, principal.CanModify)
}

func TestAuthenticate_RejectsBadTokens(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, -time.Minute)

	_, err := h.auth.Handle(ctx, "")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = h.auth.Handle(ctx, "junk")
	assert.ErrorIs(t, err, domain.ErrInvalidToken)

	_, err = h.signup.Handle(ctx, commands.SignupCommand{Username: "carol", Password: "secret1"})
	require.NoError(t, err)
	expired, err := h.login.Handle(ctx, commands.LoginCommand{Username: "carol", Password: "secret1"})
	require.NoError(t, err)

	_, err = h.auth.Handle(ctx, expired.Token)
	assert.ErrorIs(t, err, shared.ErrUnauthenticated)
}
