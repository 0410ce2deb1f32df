package main

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newLedgerCommand(ctx *commandContext) *cobra.Command {
	ledgerCmd := &cobra.Command{
		Use:   "ledger",
		Short: "Inspect and maintain the bad-encode ledger",
	}

	ledgerCmd.AddCommand(newLedgerListCommand(ctx))
	ledgerCmd.AddCommand(newLedgerCountCommand(ctx))
	ledgerCmd.AddCommand(newLedgerClearCommand(ctx))

	return ledgerCmd
}

func newLedgerListCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List recorded bad encodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd.Context(), func(ws *workspace) error {
				entries, err := ws.store.Entries(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(entries) == 0 {
					fmt.Fprintln(out, "Ledger is empty")
					return nil
				}
				rows := make([][]string, 0, len(entries))
				for _, entry := range entries {
					rows = append(rows, []string{
						shortHash(entry.Hash),
						strconv.Itoa(entry.CRF),
						entry.Preset,
						humanize.IBytes(uint64(entry.OutputBytes)),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"Hash", "CRF", "Preset", "Output Size"},
					rows,
					[]columnAlignment{alignLeft, alignRight, alignLeft, alignRight},
				))
				return nil
			})
		},
	}
}

func newLedgerCountCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of recorded bad encodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd.Context(), func(ws *workspace) error {
				count, err := ws.store.Count(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), count)
				return nil
			})
		},
	}
}

func newLedgerClearCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all recorded bad encodes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return ctx.withWorkspace(cmd.Context(), func(ws *workspace) error {
				removed, err := ws.store.Clear(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Removed %d entries\n", removed)
				return nil
			})
		},
	}
}

func shortHash(hash []byte) string {
	const shown = 8
	if len(hash) <= shown {
		return hex.EncodeToString(hash)
	}
	return hex.EncodeToString(hash[:shown])
}
