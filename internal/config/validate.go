package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateEncoder(); err != nil {
		return err
	}
	if err := c.validateStaging(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateEncoder() error {
	if c.Encoder.CRF < 0 || c.Encoder.CRF > 51 {
		return fmt.Errorf("encoder.crf must be between 0 and 51, got %d", c.Encoder.CRF)
	}
	if !IsPreset(c.Encoder.Preset) {
		return fmt.Errorf("encoder.preset %q is not recognized (valid: %s)", c.Encoder.Preset, strings.Join(Presets, ", "))
	}
	if c.Encoder.TargetVideoCodec == "" {
		return errors.New("encoder.target_video_codec must be set")
	}
	if c.Encoder.TargetAudioCodec == "" {
		return errors.New("encoder.target_audio_codec must be set")
	}
	return nil
}

func (c *Config) validateStaging() error {
	if c.Staging.ScratchMaxAgeHours < 0 {
		return errors.New("staging.scratch_max_age_hours must not be negative")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be debug, info, warn, or error, got %q", c.Logging.Level)
	}
	return nil
}
