package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"reenc/internal/config"
	"reenc/internal/logging"
	"reenc/internal/media"
)

func newProbeCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "probe INPUT...",
		Short: "Print stream and size information for video files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			prober := media.NewProber(cfg.Encoder.FFprobeBinary, logger)

			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				path, err := config.ExpandPath(arg)
				if err != nil {
					return err
				}
				info, err := prober.Probe(cmd.Context(), path)
				if err != nil {
					logger.Warn("probe failed", logging.String(logging.FieldInput, path), logging.Error(err))
					rows = append(rows, []string{"-", "-", "-", "-", path})
					continue
				}
				stat, err := os.Stat(path)
				if err != nil {
					return fmt.Errorf("stat %q: %w", path, err)
				}
				audio := info.AudioCodec
				if !info.HasAudio() {
					audio = "none"
				}
				rows = append(rows, []string{
					humanize.IBytes(uint64(stat.Size())),
					info.VideoCodec,
					audio,
					formatClock(info.DurationSeconds),
					path,
				})
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Size", "Video", "Audio", "Duration", "File"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignRight, alignLeft},
			))
			return nil
		},
	}
	return cmd
}
