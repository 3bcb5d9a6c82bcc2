package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"curator/internal/record"
)

// reviewedBy is the operator identity stamped on CLI approvals and edits.
const reviewedBy = "admin"

func newApproveCommand(ctx *commandContext) *cobra.Command {
	var chunkIndex int

	cmd := &cobra.Command{
		Use:   "approve <raw|cleaned|chunked> <filename>",
		Short: "Approve a pending record or chunk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(args[0])
			if err != nil {
				return err
			}
			filename := args[1]
			fs, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if stage == record.StageChunked {
				if chunkIndex < 1 {
					return fmt.Errorf("chunk approval requires --chunk-index")
				}
				chunk, err := fs.ApproveChunk(filename, chunkIndex, reviewedBy)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Approved chunk %d of %s (%s)\n", chunk.ChunkIndex, filename, chunk.ChunkID)
				return nil
			}

			if _, err := fs.Approve(stage, filename, reviewedBy); err != nil {
				return err
			}
			fmt.Fprintf(out, "Approved %s file %s\n", stage, filename)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkIndex, "chunk-index", 0, "Chunk index when approving a single chunk")
	return cmd
}

func newRejectCommand(ctx *commandContext) *cobra.Command {
	var chunkIndex int
	var reason string

	cmd := &cobra.Command{
		Use:   "reject <raw|cleaned|chunked> <filename>",
		Short: "Reject a pending record or chunk",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(args[0])
			if err != nil {
				return err
			}
			filename := args[1]
			fs, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if stage == record.StageChunked {
				if chunkIndex < 1 {
					return fmt.Errorf("chunk rejection requires --chunk-index")
				}
				if err := fs.DeleteChunk(filename, chunkIndex); err != nil {
					return err
				}
				fmt.Fprintf(out, "Rejected chunk %d of %s\n", chunkIndex, filename)
				return nil
			}

			if err := fs.Reject(stage, filename, reason); err != nil {
				return err
			}
			fmt.Fprintf(out, "Rejected %s file %s\n", stage, filename)
			return nil
		},
	}

	cmd.Flags().IntVar(&chunkIndex, "chunk-index", 0, "Chunk index when rejecting a single chunk")
	cmd.Flags().StringVar(&reason, "reason", "", "Reason recorded in the daemon log")
	return cmd
}

func newApproveAllCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "approve-all <raw|cleaned|chunked> [filename]",
		Short: "Approve every pending record at a stage",
		Long:  "Approve every pending record at a stage. The chunked stage approves one source file's chunks and requires the filename argument.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			stage, err := parseStage(args[0])
			if err != nil {
				return err
			}
			fs, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if stage == record.StageChunked {
				if len(args) < 2 {
					return fmt.Errorf("approving chunks requires the source filename")
				}
				count, err := fs.ApproveAllChunks(args[1], reviewedBy)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Approved %d chunk(s) of %s\n", count, args[1])
				return nil
			}

			count, err := fs.ApproveAll(stage, reviewedBy)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Approved %d %s file(s)\n", count, stage)
			return nil
		},
	}
	return cmd
}
