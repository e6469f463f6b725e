package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/tuleap-go/pkg/tuleap"
)

var artifactsField string

var trackerArtifactsCmd = &cobra.Command{
	Use:   "artifacts <tracker-id>",
	Short: "List a tracker's artifacts",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackerArtifacts,
}

func init() {
	trackerArtifactsCmd.Flags().StringVar(&artifactsField, "field", "summary",
		"Field shown next to each artifact id")
}

func runTrackerArtifacts(cmd *cobra.Command, args []string) error {
	trackerID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid tracker id %q", args[0])
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	ctx := context.Background()
	tracker, err := client.Tracker(ctx, trackerID)
	if err != nil {
		return fmt.Errorf("fetch tracker %d: %w", trackerID, err)
	}

	if jsonOutput {
		items := make([]map[string]any, 0, len(tracker.ArtifactIDs))
		_, err := tracker.Artifacts(ctx, func(a *tuleap.Artifact) {
			items = append(items, map[string]any{
				"id":           a.ID,
				"xref":         a.FieldText("xref"),
				artifactsField: a.FieldText(artifactsField),
			})
		})
		if err != nil {
			return fmt.Errorf("fetch artifacts: %w", err)
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"tracker":   trackerID,
			"artifacts": items,
			"total":     len(items),
		})
	}

	if len(tracker.ArtifactIDs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No artifacts found.")
		return nil
	}

	w := newTabWriter(cmd.OutOrStdout())
	fmt.Fprintf(w, "ID\tXREF\t%s\n", artifactsField)
	_, err = tracker.Artifacts(ctx, func(a *tuleap.Artifact) {
		fmt.Fprintf(w, "%d\t%s\t%s\n", a.ID, a.FieldText("xref"), a.FieldText(artifactsField))
	})
	if err != nil {
		return fmt.Errorf("fetch artifacts: %w", err)
	}
	w.Flush()

	return nil
}
