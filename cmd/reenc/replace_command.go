package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"reenc/internal/encoding"
)

func newReplaceCommand(ctx *commandContext) *cobra.Command {
	var flags encodeFlags
	var noBackup bool

	cmd := &cobra.Command{
		Use:   "replace INPUT",
		Short: "Reencode a video and swap it into place",
		Long: "Reencode INPUT and replace it with the result. Non-mp4 inputs gain an\n" +
			".mp4 sibling and the original is renamed to a backup (or removed with\n" +
			"--no-backup). Inputs that need no work are left untouched.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := resolveInput(args[0])
			if err != nil {
				return err
			}
			return ctx.withWorkspace(cmd.Context(), func(ws *workspace) error {
				opts := encoding.ReplaceOptions{
					Options:  flags.options(cmd, ws.cfg),
					NoBackup: noBackup,
				}
				res, err := ws.orch.Replace(cmd.Context(), input, opts)
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if res.Outcome != encoding.OutcomeCommitted {
					fmt.Fprintln(out, "Nothing to do")
					return nil
				}
				fmt.Fprintf(out, "Replaced %s\n", res.OutputPath)
				return nil
			})
		},
	}

	registerEncodeFlags(cmd, &flags)
	cmd.Flags().BoolVar(&noBackup, "no-backup", false, "Remove the input instead of keeping a backup")
	return cmd
}
