package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"log/slog"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"reenc/internal/config"
	"reenc/internal/encoding"
	"reenc/internal/hashing"
	"reenc/internal/ledger"
	"reenc/internal/logging"
	"reenc/internal/media"
	"reenc/internal/services/ffmpeg"
	"reenc/internal/staging"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		level := cfg.Logging.Level
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			level = strings.TrimSpace(*c.logLevelFlag)
		}
		format := "auto"
		if c.logFormatFlag != nil && strings.TrimSpace(*c.logFormatFlag) != "" {
			format = strings.TrimSpace(*c.logFormatFlag)
		}
		if format == "auto" {
			format = cfg.Logging.Format
			if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
				format = "json"
			}
		}
		logger, err := logging.New(logging.Options{
			Level:       level,
			Format:      format,
			OutputPaths: []string{"stderr", filepath.Join(cfg.Paths.LogDir, "reenc.log")},
		})
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

// workspace bundles the collaborators an encode-facing command needs.
type workspace struct {
	cfg    *config.Config
	logger *slog.Logger
	store  *ledger.Store
	prober *media.Prober
	orch   *encoding.Orchestrator
}

// withWorkspace opens the ledger, assembles the orchestrator, and sweeps
// stale scratch directories before handing control to fn.
func (c *commandContext) withWorkspace(cmdCtx context.Context, fn func(ws *workspace) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	logger, err := c.ensureLogger()
	if err != nil {
		return err
	}

	maxAge := time.Duration(cfg.Staging.ScratchMaxAgeHours) * time.Hour
	if maxAge > 0 {
		staging.CleanStale(cmdCtx, cfg.Paths.StagingDir, maxAge, logger)
	}

	hasher := hashing.NewHasher()
	store, err := ledger.Open(cfg.Paths.LedgerPath, hasher, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	prober := media.NewProber(cfg.Encoder.FFprobeBinary, logger)
	runner := ffmpeg.NewCLI(ffmpeg.WithBinary(cfg.Encoder.FFmpegBinary), ffmpeg.WithLogger(logger))

	return fn(&workspace{
		cfg:    cfg,
		logger: logger,
		store:  store,
		prober: prober,
		orch:   encoding.New(cfg, runner, prober, store, logger),
	})
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
