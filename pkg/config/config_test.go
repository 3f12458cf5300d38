package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// isolate runs the test in an empty directory so no stray .env is read,
// and clears the variables Load looks at.
func isolate(t *testing.T) {
	t.Helper()
	t.Chdir(t.TempDir())
	for _, key := range []string{
		"APP_ENV", "LOG_LEVEL", "DATABASE_URL", "DATABASE_MAX_CONNS", "REDIS_URL", "RABBITMQ_URL",
		"HTTP_ADDR", "JWT_SECRET", "SESSION_TTL", "SHUTDOWN_GRACE",
		"OUTBOX_POLL_INTERVAL", "OUTBOX_BATCH_SIZE", "OUTBOX_MAX_RETRIES",
		"OUTBOX_RETENTION_DAYS", "OUTBOX_CLEANUP_INTERVAL", "OUTBOX_PROCESSOR_ENABLED",
		"WORKER_HEALTH_ADDR", "GITHUB_WEBHOOK_SECRET", "DEPLOY_COMMAND", "DEPLOY_DIR",
		"DEPLOY_TIMEOUT", "DEPLOY_BRANCH_REF", "MCP_ADDR", "MCP_AUTH_TOKEN",
		"DOCS_FASTMCP_SOURCE", "DOCS_CANVAS_SOURCE", "DOCS_CACHE_DIR", "SCRAPER_BASE_URL",
	} {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func TestLoad_Defaults(t *testing.T) {
	isolate(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.AppEnv)
	assert.True(t, cfg.IsDevelopment())
	assert.Empty(t, cfg.DatabaseURL)
	assert.Empty(t, cfg.RedisURL)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTPAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.OutboxPollInterval)
	assert.Equal(t, 100, cfg.OutboxBatchSize)
	assert.Equal(t, 14*24*time.Hour, cfg.OutboxRetention())
	assert.True(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, "refs/heads/main", cfg.DeployBranchRef)
	assert.Equal(t, []byte("ordo-development-secret"), cfg.SigningKey())
	assert.Contains(t, cfg.DocSources(), "fastmcp")
	assert.Contains(t, cfg.DocSources(), "canvas")
}

func TestLoad_EnvOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_URL", "postgres://ordo@localhost/ordo")
	t.Setenv("OUTBOX_BATCH_SIZE", "25")
	t.Setenv("OUTBOX_PROCESSOR_ENABLED", "false")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "postgres://ordo@localhost/ordo", cfg.DatabaseURL)
	assert.Equal(t, 25, cfg.OutboxBatchSize)
	assert.False(t, cfg.OutboxProcessorEnabled)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, []byte("s3cret"), cfg.SigningKey())
}

func TestLoad_InvalidEnvKeepsDefault(t *testing.T) {
	isolate(t)
	t.Setenv("OUTBOX_MAX_RETRIES", "many")
	t.Setenv("DEPLOY_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 5, cfg.OutboxMaxRetries)
	assert.Equal(t, 5*time.Minute, cfg.DeployTimeout)
}

func TestLoad_YAMLFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "ordo.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
http_addr: 127.0.0.1:9000
redis_url: redis://cache:6379/1
session_ttl: 2h
deploy_command: ./deploy.sh
`), 0o600))
	t.Setenv("REDIS_URL", "redis://override:6379/0")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 2*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "./deploy.sh", cfg.DeployCommand)
	assert.Equal(t, "redis://override:6379/0", cfg.RedisURL, "env wins over file")
	assert.Equal(t, 100, cfg.OutboxBatchSize, "unset keys keep defaults")
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		isolate(t)
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("bad yaml", func(t *testing.T) {
		isolate(t)
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("http_addr: [unterminated"), 0o600))
		_, err := Load(path)
		assert.Error(t, err)
	})

	t.Run("production requires secret", func(t *testing.T) {
		isolate(t)
		t.Setenv("APP_ENV", "production")
		_, err := Load("")
		assert.ErrorContains(t, err, "JWT_SECRET")
	})
}
