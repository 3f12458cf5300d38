package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/felixgeelhaar/ordo/internal/app"
	deployDomain "github.com/felixgeelhaar/ordo/internal/deploy/domain"
	identityCommands "github.com/felixgeelhaar/ordo/internal/identity/application/commands"
	identityDomain "github.com/felixgeelhaar/ordo/internal/identity/domain"
	"github.com/felixgeelhaar/ordo/pkg/config"
)

const webhookSecret = "webhook-secret"

type apiEnv struct {
	t       *testing.T
	app     *app.Container
	handler http.Handler
}

func newAPIEnv(t *testing.T) *apiEnv {
	t.Helper()
	cfg := config.Defaults()
	cfg.AppEnv = "test"
	cfg.DatabaseURL = ":memory:"
	cfg.GitHubWebhookSecret = webhookSecret
	cfg.DocsCacheDir = t.TempDir()

	c, err := app.NewContainer(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	_, err = c.Migrate(context.Background())
	require.NoError(t, err)

	return &apiEnv{t: t, app: c, handler: NewServer(DefaultServerConfig(), c).Handler()}
}

func (e *apiEnv) do(method, path, token string, body any) *httptest.ResponseRecorder {
	e.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if raw, ok := body.(string); ok {
			buf.WriteString(raw)
		} else {
			require.NoError(e.t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

// signupAndLogin returns a bearer token for a fresh account.
func (e *apiEnv) signupAndLogin(username string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"username": username, "password": "secret123"})
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return e.login(username, "secret123")
}

func (e *apiEnv) login(username, password string) string {
	e.t.Helper()
	rec := e.do(http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": username, "password": password})
	require.Equal(e.t, http.StatusOK, rec.Code, rec.Body.String())
	return decode[loginResponse](e.t, rec).Token
}

func (e *apiEnv) createItem(token, title string, extra map[string]any) string {
	e.t.Helper()
	body := map[string]any{"title": title}
	for k, v := range extra {
		body[k] = v
	}
	rec := e.do(http.MethodPost, "/api/v1/todos", token, body)
	require.Equal(e.t, http.StatusCreated, rec.Code, rec.Body.String())
	return decode[map[string]any](e.t, rec)["id"].(string)
}

func TestAuthLifecycle(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signupAndLogin("alice")

	rec := env.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	me := decode[map[string]any](t, rec)
	assert.Equal(t, "alice", me["username"])
	assert.Equal(t, true, me["can_modify"])
	assert.NotEmpty(t, rec.Header().Get(headerRequestID))

	rec = env.do(http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = env.do(http.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthErrors(t *testing.T) {
	env := newAPIEnv(t)
	env.signupAndLogin("bob")

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"short password", http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"username": "carol", "password": "123"}, http.StatusBadRequest},
		{"duplicate username", http.MethodPost, "/api/v1/auth/signup", "", map[string]string{"username": "bob", "password": "secret123"}, http.StatusBadRequest},
		{"bad json", http.MethodPost, "/api/v1/auth/signup", "", "{", http.StatusBadRequest},
		{"wrong password", http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "bob", "password": "nope-nope"}, http.StatusUnauthorized},
		{"no token", http.MethodGet, "/api/v1/todos", "", nil, http.StatusUnauthorized},
		{"garbage token", http.MethodGet, "/api/v1/todos", "not-a-jwt", nil, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.want, rec.Code, rec.Body.String())
		})
	}
}

func TestTodoFlow(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signupAndLogin("dana")

	a := env.createItem(token, "A", map[string]any{"effort": "bad"})
	b := env.createItem(token, "B", map[string]any{"effort": 999})

	item := decode[map[string]any](t, env.do(http.MethodGet, "/api/v1/todos/"+a, token, nil))
	assert.Equal(t, float64(0), item["effort"])
	item = decode[map[string]any](t, env.do(http.MethodGet, "/api/v1/todos/"+b, token, nil))
	assert.Equal(t, float64(10), item["effort"])

	rec := env.do(http.MethodPost, "/api/v1/todos/"+b+"/toggle", token, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode[map[string]any](t, rec)["completed"])

	// A completed item may not precede an incomplete one.
	rec = env.do(http.MethodPost, "/api/v1/todos/reorder", token, map[string]any{"item_ids": []string{b, a}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "error", decode[map[string]string](t, rec)["status"])

	rec = env.do(http.MethodPost, "/api/v1/todos/reorder", token, map[string]any{"item_ids": []string{a, b}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, map[string]string{"status": "success"}, decode[map[string]string](t, rec))

	items := decode[[]map[string]any](t, env.do(http.MethodGet, "/api/v1/todos", token, nil))
	require.Len(t, items, 2)
	assert.Equal(t, "A", items[0]["title"])

	items = decode[[]map[string]any](t, env.do(http.MethodGet, "/api/v1/todos?show_completed=false", token, nil))
	assert.Len(t, items, 1)

	rec = env.do(http.MethodDelete, "/api/v1/todos/"+a, token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	rec = env.do(http.MethodGet, "/api/v1/todos/"+a, token, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCompleteAndFollowup(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signupAndLogin("erin")

	rec := env.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "Work"})
	require.Equal(t, http.StatusCreated, rec.Code)
	catID := decode[map[string]any](t, rec)["id"].(string)

	id := env.createItem(token, "Report", map[string]any{"category_ids": []string{catID}})
	rec = env.do(http.MethodPost, "/api/v1/todos/"+id+"/complete-and-followup", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	location := rec.Header().Get("Location")
	assert.Equal(t, "/api/v1/todos/new?category="+catID, location)
	assert.Equal(t, "create", decode[map[string]any](t, rec)["next"])

	rec = env.do(http.MethodGet, location, token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	draft := decode[map[string]any](t, rec)
	assert.Equal(t, []any{catID}, draft["preselected_category_ids"])
	assert.Len(t, draft["categories"], 1)

	bare := env.createItem(token, "Untagged", nil)
	rec = env.do(http.MethodPost, "/api/v1/todos/"+bare+"/complete-and-followup", token, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "/api/v1/todos/new", rec.Header().Get("Location"))
}

func TestCategories(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signupAndLogin("fay")

	rec := env.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "  "})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, false, decode[map[string]any](t, rec)["created"])

	var ids []string
	for _, name := range []string{"Home", "Work"} {
		rec := env.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": name})
		require.Equal(t, http.StatusCreated, rec.Code)
		ids = append(ids, decode[map[string]any](t, rec)["id"].(string))
	}

	rec = env.do(http.MethodPost, "/api/v1/categories/reorder", token, map[string]any{"category_ids": []string{ids[1], ids[0]}})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	cats := decode[[]map[string]any](t, env.do(http.MethodGet, "/api/v1/categories", token, nil))
	require.Len(t, cats, 2)
	assert.Equal(t, "Work", cats[0]["name"])

	rec = env.do(http.MethodDelete, "/api/v1/categories/"+ids[0], token, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOwnershipIsolation(t *testing.T) {
	env := newAPIEnv(t)
	owner := env.signupAndLogin("gus")
	other := env.signupAndLogin("hal")
	id := env.createItem(owner, "Private", nil)

	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/todos/"+id, other, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodPost, "/api/v1/todos/"+id+"/toggle", other, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodDelete, "/api/v1/todos/"+id, other, nil).Code)

	rec := env.do(http.MethodPost, "/api/v1/todos/reorder", other, map[string]any{"item_ids": []string{id}})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "error", decode[map[string]string](t, rec)["status"])
}

func TestDemoUserIsReadOnly(t *testing.T) {
	env := newAPIEnv(t)
	_, err := env.app.EnsureDemoUserHandler.Handle(context.Background())
	require.NoError(t, err)
	token := env.login(identityDomain.DemoUsername, identityCommands.DemoPassword)

	assert.Equal(t, http.StatusOK, env.do(http.MethodGet, "/api/v1/todos", token, nil).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/v1/todos", token, map[string]string{"title": "x"}).Code)
	assert.Equal(t, http.StatusForbidden, env.do(http.MethodPost, "/api/v1/categories", token, map[string]string{"name": "x"}).Code)
}

func TestArcadeFlow(t *testing.T) {
	env := newAPIEnv(t)
	token := env.signupAndLogin("ivy")
	watcher := env.signupAndLogin("jon")

	rec := env.do(http.MethodPost, "/api/v1/arcade/scores", token, map[string]any{"username": "jon", "score": 10})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	submit := func(score int) scoreResponse {
		rec := env.do(http.MethodPost, "/api/v1/arcade/scores", token, map[string]any{"username": "ivy", "score": score})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		return decode[scoreResponse](t, rec)
	}
	assert.Equal(t, scoreResponse{Success: true, Updated: true, HighScore: 100}, submit(100))
	assert.Equal(t, scoreResponse{Success: true, Updated: false, HighScore: 100}, submit(50))

	zero := env.signupAndLogin("kit")
	rec = env.do(http.MethodPost, "/api/v1/arcade/scores", zero, map[string]any{"username": "kit", "score": 0})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	for _, path := range []string{"/api/v1/arcade/leaderboard?limit=0", "/api/v1/arcade/leaderboard?limit=101", "/api/v1/arcade/leaderboard"} {
		rec := env.do(http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		board := decode[[]map[string]any](t, rec)
		require.Len(t, board, 3, "players at zero are ranked")
		assert.Equal(t, "ivy", board[0]["username"])
		assert.Equal(t, "jon", board[1]["username"])
		assert.Equal(t, "kit", board[2]["username"])
		assert.Equal(t, float64(0), board[2]["score"])
		assert.Equal(t, float64(3), board[2]["rank"])
	}

	rec = env.do(http.MethodPut, "/api/v1/arcade/players/me/state", token, map[string]any{"state": map[string]any{"snake": []int{1, 2}}, "score": 7})
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	active := decode[[]map[string]any](t, env.do(http.MethodGet, "/api/v1/arcade/players/active", watcher, nil))
	require.Len(t, active, 1)
	assert.Equal(t, "ivy", active[0]["username"])

	rec = env.do(http.MethodGet, "/api/v1/arcade/players/ivy/state", watcher, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, float64(7), decode[map[string]any](t, rec)["score"])

	assert.Equal(t, http.StatusNoContent, env.do(http.MethodDelete, "/api/v1/arcade/players/me/state", token, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(http.MethodGet, "/api/v1/arcade/players/nobody/state", watcher, nil).Code)
}

func (e *apiEnv) webhook(event, body, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/github", bytes.NewBufferString(body))
	req.Header.Set(deployDomain.EventHeader, event)
	req.Header.Set(deployDomain.SignatureHeader, signature)
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

func TestGitHubWebhook(t *testing.T) {
	env := newAPIEnv(t)

	body := `{"ref":"refs/heads/feature"}`
	rec := env.webhook("push", body, deployDomain.SignatureFor("wrong", []byte(body)))
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = env.webhook("push", body, deployDomain.SignatureFor(webhookSecret, []byte(body)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ignored", decode[map[string]any](t, rec)["status"])

	main := `{"ref":"refs/heads/main","pusher":{"name":"kim"},"commits":[{}]}`
	rec = env.webhook("push", main, deployDomain.SignatureFor(webhookSecret, []byte(main)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "success", decode[map[string]any](t, rec)["status"])
}

func TestHealth(t *testing.T) {
	env := newAPIEnv(t)
	rec := env.do(http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "healthy", decode[map[string]any](t, rec)["status"])
}

func TestStatusFor(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, statusFor(errBadJSON))
	assert.Equal(t, http.StatusUnauthorized, statusFor(errMissingToken))
	assert.Equal(t, http.StatusForbidden, statusFor(errReadOnly))
	assert.Equal(t, http.StatusInternalServerError, statusFor(assert.AnError))
}
