package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"reenc/internal/config"
	"reenc/internal/encoding"
)

func newEncodeCommand(ctx *commandContext) *cobra.Command {
	var flags encodeFlags
	var outDir string
	var replaceLink bool
	var noBackup bool
	var noCopy bool

	cmd := &cobra.Command{
		Use:   "encode INPUT",
		Short: "Reencode a video into an output directory",
		Long: "Reencode INPUT into the output directory with an inferred .mp4 name.\n" +
			"Inputs already matching the target codecs are hardlinked or copied instead.",
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
				opts := flags.options(cmd, ws.cfg)
				opts.SuppressCopy = noCopy
				output := filepath.Join(dir, filepath.Base(input))
				res, err := ws.orch.Encode(cmd.Context(), input, output, opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Outcome != encoding.OutcomeCommitted {
					fmt.Fprintln(out, "Nothing to do")
					return nil
				}
				if replaceLink {
					if err := ws.orch.ReplaceWithLink(input, res.OutputPath, noBackup); err != nil {
						return err
					}
					fmt.Fprintf(out, "Linked %s -> %s\n", input, res.OutputPath)
					return nil
				}
				fmt.Fprintf(out, "Wrote %s\n", res.OutputPath)
				return nil
			})
		},
	}

	registerEncodeFlags(cmd, &flags)
	cmd.Flags().StringVar(&outDir, "outdir", ".", "Directory for the reencoded video")
	cmd.Flags().BoolVar(&replaceLink, "replace-link", false, "Replace the input file with a symlink to the output")
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Remove the input instead of keeping a backup when linking")
	cmd.Flags().BoolVar(&noCopy, "no-copy", false, "Skip the pass-through copy when the input needs no work")
	return cmd
}
