package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"curator/internal/ledger"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent hub uploads from the publish ledger",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			ledgerStore, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open publish ledger: %w", err)
			}
			defer ledgerStore.Close()

			entries, err := ledgerStore.Recent(cmd.Context(), limit)
			if err != nil {
				return fmt.Errorf("read publish ledger: %w", err)
			}

			if jsonOut {
				if entries == nil {
					entries = []ledger.Entry{}
				}
				return writeJSON(cmd, map[string]any{"entries": entries, "count": len(entries)})
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No uploads recorded")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, entry := range entries {
				rows = append(rows, []string{
					entry.Kind,
					entry.ItemKey,
					entry.Repo,
					entry.UploadedAt.Format(time.RFC3339),
				})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"Kind", "Item", "Repo", "Uploaded At"},
				rows,
				nil,
			))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum entries to show")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
