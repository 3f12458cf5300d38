// Package runner executes the configured deploy command.
package runner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/felixgeelhaar/ordo/internal/deploy/domain"
	"github.com/felixgeelhaar/ordo/internal/shared/infrastructure/security"
)

// Config describes the command and the breaker around it.
type Config struct {
	// Command is split on whitespace; the first field is the program.
	Command string
	Dir     string
	Timeout time.Duration

	// FailureThreshold consecutive failures open the breaker for
	// OpenTimeout.
	FailureThreshold uint32
	OpenTimeout      time.Duration
}

// DefaultConfig returns the breaker settings used when none are given.
func DefaultConfig(command string) Config {
	return Config{
		Command:          command,
		Timeout:          5 * time.Minute,
		FailureThreshold: 3,
		OpenTimeout:      10 * time.Minute,
	}
}

// ExecRunner runs the deploy command as a child process.
type ExecRunner struct {
	program string
	args    []string
	dir     string
	timeout time.Duration
	breaker *gobreaker.CircuitBreaker[[]byte]
	logger  *slog.Logger
}

// NewExecRunner creates a runner. An empty command is rejected, as is a
// working directory containing shell metacharacters.
func NewExecRunner(cfg Config, logger *slog.Logger) (*ExecRunner, error) {
	fields := strings.Fields(cfg.Command)
	if len(fields) == 0 {
		return nil, domain.ErrNoDeployCommand
	}
	if cfg.Dir != "" {
		dir, err := security.CleanPath(cfg.Dir)
		if err != nil {
			return nil, fmt.Errorf("deploy dir: %w", err)
		}
		cfg.Dir = dir
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = 3
	}

	r := &ExecRunner{
		program: fields[0],
		args:    fields[1:],
		dir:     cfg.Dir,
		timeout: cfg.Timeout,
		logger:  logger,
	}
	r.breaker = gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        "deploy",
		MaxRequests: 1,
		Timeout:     cfg.OpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Info("circuit breaker state changed",
				"breaker", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
	return r, nil
}

// Run executes the command once. While the breaker is open it fails fast
// with ErrDeployCircuitOpen.
func (r *ExecRunner) Run(ctx context.Context) ([]byte, error) {
	out, err := r.breaker.Execute(func() ([]byte, error) {
		return r.exec(ctx)
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, domain.ErrDeployCircuitOpen
	}
	return out, err
}

func (r *ExecRunner) exec(ctx context.Context) ([]byte, error) {
	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, r.program, r.args...)
	cmd.Dir = r.dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return out, fmt.Errorf("deploy command %s: %w", r.program, ctx.Err())
		}
		return out, fmt.Errorf("deploy command %s: %w", r.program, err)
	}
	return out, nil
}

// State reports the breaker state for health output.
func (r *ExecRunner) State() string {
	return r.breaker.State().String()
}
