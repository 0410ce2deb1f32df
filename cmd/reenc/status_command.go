package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reenc/internal/deps"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check external tools and configured directories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}

			requirements := []deps.Requirement{
				{Name: "ffmpeg", Command: cfg.Encoder.FFmpegBinary, Description: "video transcoder"},
				{Name: "ffprobe", Command: cfg.Encoder.FFprobeBinary, Description: "stream inspector"},
			}
			statuses := deps.CheckBinaries(requirements)
			statuses = append(statuses,
				deps.CheckDirectoryAccess("staging dir", cfg.Paths.StagingDir),
				deps.CheckDirectoryAccess("log dir", cfg.Paths.LogDir),
				deps.CheckDirectoryAccess("ledger dir", filepath.Dir(cfg.Paths.LedgerPath)),
			)

			rows := make([][]string, 0, len(statuses))
			failures := 0
			for _, status := range statuses {
				state := "ok"
				if !status.Available {
					state = "missing"
					failures++
				}
				rows = append(rows, []string{status.Name, state, status.Detail})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Check", "State", "Detail"},
				rows,
				[]columnAlignment{alignLeft, alignLeft, alignLeft},
			))
			if failures > 0 {
				return fmt.Errorf("%d checks failed", failures)
			}
			return nil
		},
	}
}
