// Package config loads Ordo settings from an optional YAML file, a .env
// file and the process environment, in that order of increasing priority.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds application configuration.
type Config struct {
	AppEnv   string `yaml:"app_env"`
	LogLevel string `yaml:"log_level"`

	// Database. An empty URL selects the local SQLite file.
	DatabaseURL      string `yaml:"database_url"`
	DatabaseMaxConns int    `yaml:"database_max_conns"`

	// Optional infrastructure; empty disables it.
	RedisURL    string `yaml:"redis_url"`
	RabbitMQURL string `yaml:"rabbitmq_url"`

	// HTTP API
	HTTPAddr      string        `yaml:"http_addr"`
	JWTSecret     string        `yaml:"jwt_secret"`
	SessionTTL    time.Duration `yaml:"session_ttl"`
	ShutdownGrace time.Duration `yaml:"shutdown_grace"`

	// Outbox
	OutboxPollInterval     time.Duration `yaml:"outbox_poll_interval"`
	OutboxBatchSize        int           `yaml:"outbox_batch_size"`
	OutboxMaxRetries       int           `yaml:"outbox_max_retries"`
	OutboxRetentionDays    int           `yaml:"outbox_retention_days"`
	OutboxCleanupInterval  time.Duration `yaml:"outbox_cleanup_interval"`
	OutboxProcessorEnabled bool          `yaml:"outbox_processor_enabled"`

	// Worker
	WorkerHealthAddr string `yaml:"worker_health_addr"`

	// Deploy webhook
	GitHubWebhookSecret string        `yaml:"github_webhook_secret"`
	DeployCommand       string        `yaml:"deploy_command"`
	DeployDir           string        `yaml:"deploy_dir"`
	DeployTimeout       time.Duration `yaml:"deploy_timeout"`
	DeployBranchRef     string        `yaml:"deploy_branch_ref"`

	// MCP
	MCPAddr      string `yaml:"mcp_addr"`
	MCPAuthToken string `yaml:"mcp_auth_token"`

	// Doc search corpora: a local zip path or an http(s) URL.
	DocsFastMCPSource string `yaml:"docs_fastmcp_source"`
	DocsCanvasSource  string `yaml:"docs_canvas_source"`
	DocsCacheDir      string `yaml:"docs_cache_dir"`
	ScraperBaseURL    string `yaml:"scraper_base_url"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() *Config {
	return &Config{
		AppEnv:                 "development",
		LogLevel:               "info",
		DatabaseMaxConns:       10,
		HTTPAddr:               "0.0.0.0:8080",
		SessionTTL:             7 * 24 * time.Hour,
		ShutdownGrace:          10 * time.Second,
		OutboxPollInterval:     250 * time.Millisecond,
		OutboxBatchSize:        100,
		OutboxMaxRetries:       5,
		OutboxRetentionDays:    14,
		OutboxCleanupInterval:  24 * time.Hour,
		OutboxProcessorEnabled: true,
		WorkerHealthAddr:       "0.0.0.0:8081",
		DeployTimeout:          5 * time.Minute,
		DeployBranchRef:        "refs/heads/main",
		MCPAddr:                "0.0.0.0:8082",
		DocsFastMCPSource:      "https://github.com/jlowin/fastmcp/archive/refs/heads/main.zip",
		DocsCanvasSource:       "https://github.com/canvas-medical/canvas-plugins/archive/refs/heads/main.zip",
		DocsCacheDir:           defaultCacheDir(),
		ScraperBaseURL:         "https://r.jina.ai/",
	}
}

// Load reads configuration. path names an optional YAML file; an empty
// path skips it.
func Load(path string) (*Config, error) {
	// A missing .env file is fine.
	_ = godotenv.Load()

	cfg := Defaults()
	if path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return nil, err
		}
	}
	cfg.overlayEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) overlayEnv() {
	c.AppEnv = getEnv("APP_ENV", c.AppEnv)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)

	c.DatabaseURL = getEnv("DATABASE_URL", c.DatabaseURL)
	c.DatabaseMaxConns = getIntEnv("DATABASE_MAX_CONNS", c.DatabaseMaxConns)
	c.RedisURL = getEnv("REDIS_URL", c.RedisURL)
	c.RabbitMQURL = getEnv("RABBITMQ_URL", c.RabbitMQURL)

	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.JWTSecret = getEnv("JWT_SECRET", c.JWTSecret)
	c.SessionTTL = getDurationEnv("SESSION_TTL", c.SessionTTL)
	c.ShutdownGrace = getDurationEnv("SHUTDOWN_GRACE", c.ShutdownGrace)

	c.OutboxPollInterval = getDurationEnv("OUTBOX_POLL_INTERVAL", c.OutboxPollInterval)
	c.OutboxBatchSize = getIntEnv("OUTBOX_BATCH_SIZE", c.OutboxBatchSize)
	c.OutboxMaxRetries = getIntEnv("OUTBOX_MAX_RETRIES", c.OutboxMaxRetries)
	c.OutboxRetentionDays = getIntEnv("OUTBOX_RETENTION_DAYS", c.OutboxRetentionDays)
	c.OutboxCleanupInterval = getDurationEnv("OUTBOX_CLEANUP_INTERVAL", c.OutboxCleanupInterval)
	c.OutboxProcessorEnabled = getBoolEnv("OUTBOX_PROCESSOR_ENABLED", c.OutboxProcessorEnabled)
	c.WorkerHealthAddr = getEnv("WORKER_HEALTH_ADDR", c.WorkerHealthAddr)

	c.GitHubWebhookSecret = getEnv("GITHUB_WEBHOOK_SECRET", c.GitHubWebhookSecret)
	c.DeployCommand = getEnv("DEPLOY_COMMAND", c.DeployCommand)
	c.DeployDir = getEnv("DEPLOY_DIR", c.DeployDir)
	c.DeployTimeout = getDurationEnv("DEPLOY_TIMEOUT", c.DeployTimeout)
	c.DeployBranchRef = getEnv("DEPLOY_BRANCH_REF", c.DeployBranchRef)

	c.MCPAddr = getEnv("MCP_ADDR", c.MCPAddr)
	c.MCPAuthToken = getEnv("MCP_AUTH_TOKEN", c.MCPAuthToken)

	c.DocsFastMCPSource = getEnv("DOCS_FASTMCP_SOURCE", c.DocsFastMCPSource)
	c.DocsCanvasSource = getEnv("DOCS_CANVAS_SOURCE", c.DocsCanvasSource)
	c.DocsCacheDir = getEnv("DOCS_CACHE_DIR", c.DocsCacheDir)
	c.ScraperBaseURL = getEnv("SCRAPER_BASE_URL", c.ScraperBaseURL)
}

// Validate rejects settings the service cannot run with.
func (c *Config) Validate() error {
	var errs []error
	if c.IsProduction() && c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required in production"))
	}
	if c.OutboxBatchSize <= 0 {
		errs = append(errs, errors.New("OUTBOX_BATCH_SIZE must be positive"))
	}
	if c.SessionTTL <= 0 {
		errs = append(errs, errors.New("SESSION_TTL must be positive"))
	}
	return errors.Join(errs...)
}

// SigningKey returns the JWT secret. Development falls back to a fixed
// key so a fresh checkout can log in.
func (c *Config) SigningKey() []byte {
	if c.JWTSecret == "" {
		return []byte("ordo-development-secret")
	}
	return []byte(c.JWTSecret)
}

// DocSources maps corpus names to their archive locations.
func (c *Config) DocSources() map[string]string {
	return map[string]string{
		"fastmcp": c.DocsFastMCPSource,
		"canvas":  c.DocsCanvasSource,
	}
}

// OutboxRetention converts the retention window in days.
func (c *Config) OutboxRetention() time.Duration {
	return time.Duration(c.OutboxRetentionDays) * 24 * time.Hour
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func defaultCacheDir() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ".ordo/docs"
	}
	return dir + "/ordo/docs"
}
