package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reenc/internal/config"
)

func newBenchmarkCommand(ctx *commandContext) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "benchmark INPUT",
		Short: "Measure encode speed and size across crf/preset combinations",
		Long: "Encode a short sample of INPUT once per crf/preset combination and\n" +
			"write a report comparing elapsed time and output size.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolveInput(args[0])
			if err != nil {
				return err
			}
			dir, err := config.ExpandPath(outDir)
			if err != nil {
				return err
			}
			return ctx.withWorkspace(cmd.Context(), func(ws *workspace) error {
				report, err := ws.orch.Benchmark(cmd.Context(), input, dir)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				for _, line := range report.Lines {
					fmt.Fprintln(out, line)
				}
				fmt.Fprintf(out, "Report written to %s\n", report.ReportPath)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&outDir, "outdir", ".", "Directory for benchmark outputs and the report")
	return cmd
}
