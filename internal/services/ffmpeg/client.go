package ffmpeg

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"

	"reenc/internal/logging"
)

var commandContext = exec.CommandContext

// Runner defines ffmpeg invocation behaviour.
type Runner interface {
	Run(ctx context.Context, args []string) error
}

// Option configures the CLI client.
type Option func(*CLI)

// WithBinary overrides the default binary name.
func WithBinary(binary string) Option {
	return func(c *CLI) {
		if binary != "" {
			c.binary = binary
		}
	}
}

// WithLogger attaches a logger used to echo the assembled command line.
func WithLogger(logger *slog.Logger) Option {
	return func(c *CLI) {
		c.logger = logging.NewComponentLogger(logger, "ffmpeg")
	}
}

// CLI wraps the ffmpeg command-line encoder.
type CLI struct {
	binary string
	logger *slog.Logger
}

// NewCLI constructs a CLI client using defaults.
func NewCLI(opts ...Option) *CLI {
	cli := &CLI{binary: "ffmpeg", logger: logging.NewNop()}
	for _, opt := range opts {
		opt(cli)
	}
	return cli
}

// Run launches ffmpeg with the standard prologue plus args and waits for it
// to exit. The prologue refuses to overwrite outputs and detaches stdin.
// Non-zero exit is returned with the tail of the combined output; encoding
// failures are never retried.
func (c *CLI) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return errors.New("ffmpeg args required")
	}

	full := append([]string{"-n", "-nostdin", "-hide_banner"}, args...)
	c.logger.Info("running ffmpeg", logging.String("args", strings.Join(full, " ")))

	cmd := commandContext(ctx, c.binary, full...) //nolint:gosec
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg: %w: %s", err, tail(string(output), 2048))
	}
	return nil
}

func tail(s string, max int) string {
	s = strings.TrimSpace(s)
	if len(s) <= max {
		return s
	}
	return "..." + s[len(s)-max:]
}

var _ Runner = (*CLI)(nil)
