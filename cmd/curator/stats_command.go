package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func newStatsCommand(ctx *commandContext) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show pending and approved counts per stage",
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			stats, err := fs.Stats()
			if err != nil {
				return fmt.Errorf("collect stats: %w", err)
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"stats": stats,
					"totals": map[string]int{
						"pending":  stats.TotalPending(),
						"approved": stats.TotalApproved(),
					},
				})
			}

			rows := [][]string{
				{"raw", strconv.Itoa(stats.Raw.Pending), strconv.Itoa(stats.Raw.Approved)},
				{"cleaned", strconv.Itoa(stats.Cleaned.Pending), strconv.Itoa(stats.Cleaned.Approved)},
				{"chunked", strconv.Itoa(stats.Chunked.Pending), strconv.Itoa(stats.Chunked.Approved)},
				{"total", strconv.Itoa(stats.TotalPending()), strconv.Itoa(stats.TotalApproved())},
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Stage", "Pending", "Approved"},
				rows,
				[]columnAlignment{alignLeft, alignRight, alignRight},
			))
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}
