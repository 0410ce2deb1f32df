package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reenc/internal/config"
	"reenc/internal/encoding"
	"reenc/internal/placement"
	"reenc/internal/services"
)

// encodeFlags are the knobs shared by the encode, replace, and benchmark
// commands. Unset flags fall back to the configured defaults.
type encodeFlags struct {
	crf    int
	preset string
	force  bool
}

func registerEncodeFlags(cmd *cobra.Command, flags *encodeFlags) {
	cmd.Flags().IntVar(&flags.crf, "crf", 0, "Encoder CRF value, 0-51 (default from config)")
	cmd.Flags().StringVar(&flags.preset, "preset", "", "Encoder speed preset (default from config)")
	cmd.Flags().BoolVar(&flags.force, "force", false, "Reencode even if the input already matches the target codecs")
}

func (f *encodeFlags) options(cmd *cobra.Command, cfg *config.Config) encoding.Options {
	opts := encoding.Options{
		CRF:    cfg.Encoder.CRF,
		Preset: cfg.Encoder.Preset,
		Force:  f.force,
	}
	if cmd.Flags().Changed("crf") {
		opts.CRF = f.crf
	}
	if cmd.Flags().Changed("preset") {
		opts.Preset = f.preset
	}
	return opts
}

// resolveInput expands the user-supplied path and rejects backups and
// known-non-video extensions.
func resolveInput(arg string) (string, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return "", err
	}
	if placement.ShouldSkip(path) {
		return "", services.Wrap(
			services.ErrValidation,
			"cli",
			"check input",
			fmt.Sprintf("refusing to process %q (backup or non-video extension)", arg),
			nil,
		)
	}
	return path, nil
}

func formatClock(durationSeconds float64) string {
	minutes := int(durationSeconds / 60)
	seconds := durationSeconds - float64(minutes)*60
	return fmt.Sprintf("%d:%05.2f", minutes, seconds)
}
