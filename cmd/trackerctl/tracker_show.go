package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var trackerShowCmd = &cobra.Command{
	Use:   "show <tracker-id>",
	Short: "Show a tracker's metadata and field schema",
	Args:  cobra.ExactArgs(1),
	RunE:  runTrackerShow,
}

func runTrackerShow(cmd *cobra.Command, args []string) error {
	trackerID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid tracker id %q", args[0])
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	tracker, err := client.Tracker(context.Background(), trackerID)
	if err != nil {
		return fmt.Errorf("fetch tracker %d: %w", trackerID, err)
	}

	if jsonOutput {
		fields := make([]map[string]any, len(tracker.Structure.Fields))
		for i, f := range tracker.Structure.Fields {
			fields[i] = map[string]any{
				"field_id": f.ID,
				"name":     f.Name,
				"label":    f.Label,
				"type":     f.Type,
				"kind":     string(f.Kind()),
			}
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":          trackerID,
			"label":       tracker.Label,
			"description": tracker.Description,
			"item_name":   tracker.ItemName,
			"artifacts":   len(tracker.ArtifactIDs),
			"fields":      fields,
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Tracker:      %d\n", trackerID)
	fmt.Fprintf(out, "Label:        %s\n", tracker.Label)
	fmt.Fprintf(out, "Description:  %s\n", tracker.Description)
	fmt.Fprintf(out, "Item name:    %s\n", tracker.ItemName)
	fmt.Fprintf(out, "Artifacts:    %d\n\n", len(tracker.ArtifactIDs))

	w := newTabWriter(out)
	fmt.Fprintln(w, "ID\tNAME\tLABEL\tTYPE\tKIND")
	for _, f := range tracker.Structure.Fields {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", f.ID, f.Name, f.Label, f.Type, f.Kind())
	}
	w.Flush()

	return nil
}
