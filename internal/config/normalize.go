package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeEncoder()
	c.normalizeStaging()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.StagingDir, err = expandPath(c.Paths.StagingDir); err != nil {
		return fmt.Errorf("paths.staging_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LedgerPath) == "" {
		c.Paths.LedgerPath = defaultLedgerPath
	}
	if c.Paths.LedgerPath, err = expandPath(c.Paths.LedgerPath); err != nil {
		return fmt.Errorf("paths.ledger_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeEncoder() {
	c.Encoder.FFmpegBinary = strings.TrimSpace(c.Encoder.FFmpegBinary)
	if c.Encoder.FFmpegBinary == "" {
		c.Encoder.FFmpegBinary = defaultFFmpegBinary
	}
	c.Encoder.FFprobeBinary = strings.TrimSpace(c.Encoder.FFprobeBinary)
	if c.Encoder.FFprobeBinary == "" {
		c.Encoder.FFprobeBinary = defaultFFprobeBinary
	}
	c.Encoder.Preset = strings.ToLower(strings.TrimSpace(c.Encoder.Preset))
	if c.Encoder.Preset == "" {
		c.Encoder.Preset = defaultPreset
	}
	c.Encoder.TargetVideoCodec = strings.ToLower(strings.TrimSpace(c.Encoder.TargetVideoCodec))
	if c.Encoder.TargetVideoCodec == "" {
		c.Encoder.TargetVideoCodec = defaultTargetVideoCodec
	}
	c.Encoder.TargetAudioCodec = strings.ToLower(strings.TrimSpace(c.Encoder.TargetAudioCodec))
	if c.Encoder.TargetAudioCodec == "" {
		c.Encoder.TargetAudioCodec = defaultTargetAudioCodec
	}
	c.Encoder.VideoEncoder = strings.TrimSpace(c.Encoder.VideoEncoder)
	if c.Encoder.VideoEncoder == "" {
		c.Encoder.VideoEncoder = defaultVideoEncoder
	}
	c.Encoder.AudioEncoder = strings.TrimSpace(c.Encoder.AudioEncoder)
	if c.Encoder.AudioEncoder == "" {
		c.Encoder.AudioEncoder = defaultAudioEncoder
	}
}

func (c *Config) normalizeStaging() {
	if c.Staging.ScratchMaxAgeHours == 0 {
		c.Staging.ScratchMaxAgeHours = defaultScratchMaxAgeHours
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
