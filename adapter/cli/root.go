package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/ordo/internal/app"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/database"
	"github.com/felixgeelhaar/ordo/pkg/config"
	"github.com/felixgeelhaar/ordo/pkg/observability"
)

var (
	cfgFile string
	logger  *slog.Logger
)

type commandContext struct {
	correlationID uuid.UUID
	startedAt     time.Time
}

type commandContextKey struct{}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "ordo",
	Short: "Ordo - ordered todos, a score ledger and deploy hooks",
	Long: `Ordo serves a personal todo list with user-defined ordering, an
arcade score ledger with a live leaderboard, a GitHub deploy webhook and
a documentation search tool server.`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		info := commandContext{
			correlationID: uuid.New(),
			startedAt:     time.Now(),
		}
		ctx := observability.NewRequestContext(cmd.Context(), info.correlationID.String())
		cmd.SetContext(context.WithValue(ctx, commandContextKey{}, info))
		Logger().Info("command start",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
		)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		info, ok := cmd.Context().Value(commandContextKey{}).(commandContext)
		if !ok {
			return
		}
		Logger().Info("command end",
			"command", cmd.CommandPath(),
			"correlation_id", info.correlationID.String(),
			"duration_ms", time.Since(info.startedAt).Milliseconds(),
		)
	},
}

// Execute runs the root command with ctx and exits non-zero on failure.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "YAML config file path")
}

// AddCommand adds a command to the root command.
func AddCommand(cmd *cobra.Command) {
	rootCmd.AddCommand(cmd)
}

// SetLogger sets the CLI logger.
func SetLogger(l *slog.Logger) {
	logger = l
}

// Logger returns the CLI logger, defaulting to slog's.
func Logger() *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LoadConfig reads the environment and the --config file.
func LoadConfig() (*config.Config, error) {
	return config.Load(cfgFile)
}

// OpenContainer loads configuration and connects the container. SQLite
// databases are migrated on open so a fresh checkout works without a
// separate migrate step.
func OpenContainer(ctx context.Context) (*app.Container, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	container, err := app.NewContainer(ctx, cfg, Logger())
	if err != nil {
		return nil, err
	}
	if container.DB.Driver() == database.DriverSQLite {
		if _, err := container.Migrate(ctx); err != nil {
			_ = container.Close()
			return nil, err
		}
	}
	return container, nil
}
