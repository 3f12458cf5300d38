package mcp

import (
	"context"
	"errors"
	"log/slog"

	mcpgo "github.com/felixgeelhaar/mcp-go"
	"github.com/felixgeelhaar/mcp-go/middleware"
	mcplocal "github.com/felixgeelhaar/ordo/adapter/mcp"
	"github.com/felixgeelhaar/ordo/internal/app"
	"github.com/felixgeelhaar/ordo/pkg/config"
)

// NewServer builds the tool server for the container's doc library.
func NewServer(container *app.Container, version string, logger *slog.Logger) (*mcpgo.Server, error) {
	if container == nil {
		return nil, errors.New("container is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	srv := mcpgo.NewServer(mcpgo.ServerInfo{
		Name:    "ordo-mcp",
		Version: version,
		Capabilities: mcpgo.Capabilities{
			Tools:     true,
			Resources: true,
			Prompts:   true,
		},
	})

	deps := mcplocal.ToolDependencies{}
	if container.Docs != nil {
		deps.Docs = container.Docs
	}

	if err := mcplocal.RegisterTools(srv, deps); err != nil {
		return nil, err
	}
	if err := mcplocal.RegisterResources(srv, deps); err != nil {
		logger.Warn("failed to register MCP resources", "error", err)
	}
	if err := mcplocal.RegisterPrompts(srv, deps); err != nil {
		logger.Warn("failed to register MCP prompts", "error", err)
	}
	return srv, nil
}

// Serve runs srv over HTTP on cfg.MCPAddr and blocks until ctx is canceled.
func Serve(ctx context.Context, cfg *config.Config, srv *mcpgo.Server, logger *slog.Logger) error {
	if cfg == nil {
		return errors.New("config is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	adapter := mcpLogger{logger: logger}
	stack := middleware.DefaultStack(adapter)

	if cfg.MCPAuthToken != "" {
		authenticator := middleware.BearerTokenAuthenticator(middleware.StaticTokens(map[string]*middleware.Identity{
			cfg.MCPAuthToken: {ID: "mcp", Name: "mcp"},
		}))
		stack = append([]middleware.Middleware{middleware.Auth(authenticator, middleware.WithAuthLogger(adapter))}, stack...)
	} else {
		logger.Warn("MCP_AUTH_TOKEN not set, tool calls are unauthenticated")
	}

	logger.Info("mcp server listening", "addr", cfg.MCPAddr, "auth", cfg.MCPAuthToken != "")
	return mcpgo.ServeHTTPWithMiddleware(ctx, srv, cfg.MCPAddr, nil, mcpgo.WithMiddleware(stack...))
}

// mcpLogger routes mcp-go middleware logs into slog.
type mcpLogger struct {
	logger *slog.Logger
}

func (l mcpLogger) Info(msg string, fields ...middleware.Field) {
	l.log(slog.LevelInfo, msg, fields)
}

func (l mcpLogger) Error(msg string, fields ...middleware.Field) {
	l.log(slog.LevelError, msg, fields)
}

func (l mcpLogger) Debug(msg string, fields ...middleware.Field) {
	l.log(slog.LevelDebug, msg, fields)
}

func (l mcpLogger) Warn(msg string, fields ...middleware.Field) {
	l.log(slog.LevelWarn, msg, fields)
}

func (l mcpLogger) log(level slog.Level, msg string, fields []middleware.Field) {
	l.logger.Log(context.Background(), level, msg, fieldsToArgs(fields)...)
}

func fieldsToArgs(fields []middleware.Field) []any {
	args := make([]any, 0, len(fields)*2)
	for _, f := range fields {
		args = append(args, f.Key, f.Value)
	}
	return args
}
