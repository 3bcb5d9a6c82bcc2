package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"curator/internal/record"
	"curator/internal/store"
)

func newListCommand(ctx *commandContext) *cobra.Command {
	var statusFlag string
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "list <raw|cleaned|chunked>",
		Short: "List records at a curation stage",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(args[0])
			if err != nil {
				return err
			}
			status, err := parseStatus(statusFlag)
			if err != nil {
				return err
			}
			fs, err := ctx.ensureStore()
			if err != nil {
				return err
			}

			if stage == record.StageChunked {
				return listChunks(cmd, fs, status, jsonOut)
			}
			return listRecords(cmd, fs, stage, status, jsonOut)
		},
	}

	cmd.Flags().StringVar(&statusFlag, "status", "pending", "Status to list: pending or approved")
	cmd.Flags().BoolVar(&jsonOut, "json", false, "Emit JSON instead of a table")
	return cmd
}

func listRecords(cmd *cobra.Command, fs *store.FileStore, stage record.Stage, status record.Status, jsonOut bool) error {
	items, err := fs.List(stage, status)
	if err != nil {
		return fmt.Errorf("list %s %s: %w", status, stage, err)
	}
	if jsonOut {
		if items == nil {
			items = []store.Metadata{}
		}
		return writeJSON(cmd, map[string]any{"files": items, "count": len(items)})
	}

	out := cmd.OutOrStdout()
	if len(items) == 0 {
		fmt.Fprintf(out, "No %s %s records\n", status, stage)
		return nil
	}

	timestampHeader := "Submitted At"
	timestampKey := "submitted_at"
	if status == record.StatusApproved {
		timestampHeader = "Approved At"
		timestampKey = "approved_at"
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			metaText(item, "filename"),
			metaText(item, "language"),
			metaText(item, "source"),
			metaText(item, timestampKey),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Filename", "Language", "Source", timestampHeader},
		rows,
		nil,
	))
	fmt.Fprintf(out, "%d %s %s record(s)\n", len(items), status, stage)
	return nil
}

func listChunks(cmd *cobra.Command, fs *store.FileStore, status record.Status, jsonOut bool) error {
	groups, err := fs.ChunkGroups(status)
	if err != nil {
		return fmt.Errorf("list %s chunks: %w", status, err)
	}
	if jsonOut {
		payload := make(map[string][]record.Chunk, len(groups))
		for _, group := range groups {
			payload[group.SourceFile] = group.Chunks
		}
		return writeJSON(cmd, map[string]any{"files": payload, "count": len(groups)})
	}

	out := cmd.OutOrStdout()
	if len(groups) == 0 {
		fmt.Fprintf(out, "No %s chunks\n", status)
		return nil
	}

	rows := make([][]string, 0, len(groups))
	total := 0
	for _, group := range groups {
		indexes := make([]string, 0, len(group.Chunks))
		for _, chunk := range group.Chunks {
			indexes = append(indexes, strconv.Itoa(chunk.ChunkIndex))
		}
		total += len(group.Chunks)
		rows = append(rows, []string{
			group.SourceFile,
			strconv.Itoa(len(group.Chunks)),
			strings.Join(indexes, ", "),
		})
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Source File", "Chunks", "Indexes"},
		rows,
		[]columnAlignment{alignLeft, alignRight, alignLeft},
	))
	fmt.Fprintf(out, "%d chunk(s) across %d file(s)\n", total, len(groups))
	return nil
}

func parseStage(value string) (record.Stage, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "raw":
		return record.StageRaw, nil
	case "cleaned":
		return record.StageCleaned, nil
	case "chunked", "chunks":
		return record.StageChunked, nil
	default:
		return "", fmt.Errorf("unknown stage %q (expected raw, cleaned, or chunked)", value)
	}
}

func parseStatus(value string) (record.Status, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pending", "":
		return record.StatusPending, nil
	case "approved":
		return record.StatusApproved, nil
	default:
		return "", fmt.Errorf("unknown status %q (expected pending or approved)", value)
	}
}

func metaText(meta store.Metadata, key string) string {
	if value, ok := meta[key].(string); ok {
		return value
	}
	return ""
}
