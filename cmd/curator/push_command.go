package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/hub"
	"curator/internal/ledger"
	"curator/internal/logging"
	"curator/internal/publish"
)

func newPushCommand(ctx *commandContext) *cobra.Command {
	var typeFlag string
	var repoFlag string
	var force bool
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "push",
		Short: "Upload approved data to the dataset hub",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			if !cfg.HubConfigured() {
				return fmt.Errorf("hub is not configured; set a hub token first")
			}
			kinds, err := publish.ParseKinds(typeFlag)
			if err != nil {
				return err
			}
			fs, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			ledgerStore, err := ledger.Open(cfg)
			if err != nil {
				return fmt.Errorf("open publish ledger: %w", err)
			}
			defer ledgerStore.Close()

			logger := logging.NewNop()
			publisher := publish.New(fs, hub.New(cfg, logger), ledgerStore, cfg, logger)
			summary, err := publisher.Push(cmd.Context(), publish.Request{
				Kinds:        kinds,
				RepoOverride: repoFlag,
				Force:        force,
			})
			if err != nil {
				return err
			}

			if jsonOut {
				return writeJSON(cmd, map[string]any{
					"results": summary,
					"totals": map[string]int{
						"uploaded": summary.TotalUploaded(),
						"failed":   summary.TotalFailed(),
					},
				})
			}

			out := cmd.OutOrStdout()
			colorize := isTerminal(out)
			stages := []struct {
				label  string
				result publish.StageResult
			}{
				{"raw", summary.Raw},
				{"cleaned", summary.Cleaned},
				{"chunked", summary.Chunked},
			}
			for _, stage := range stages {
				kind := statusOK
				if stage.result.Failed > 0 {
					kind = statusWarn
				}
				message := fmt.Sprintf("uploaded %d, failed %d, skipped %d",
					stage.result.Uploaded, stage.result.Failed, stage.result.Skipped)
				fmt.Fprintln(out, renderStatusLine(stage.label, kind, message, colorize))
			}
			fmt.Fprintf(out, "Push complete: %d uploaded, %d failed\n",
				summary.TotalUploaded(), summary.TotalFailed())
			return nil
		},
	}

	cmd.Flags().StringVar(&typeFlag, "type", "all", "What to push: all, raw, cleaned, or chunked")
	cmd.Flags().StringVar(&repoFlag, "repo", "", "Override the target repository for every stage")
	cmd.Flags().BoolVar(&force, "force", false, "Re-upload items the ledger already records")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of status lines")
	return cmd
}
