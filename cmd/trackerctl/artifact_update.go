package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	updateTracker int
	updateFields  []string
)

var artifactUpdateCmd = &cobra.Command{
	Use:   "update <artifact-id>",
	Short: "Update an artifact's fields in one request",
	Args:  cobra.ExactArgs(1),
	RunE:  runArtifactUpdate,
}

func init() {
	artifactUpdateCmd.Flags().IntVar(&updateTracker, "tracker", 0,
		"Tracker id of the artifact (required)")
	artifactUpdateCmd.Flags().StringArrayVar(&updateFields, "set", nil,
		"Field assignment as name=value (repeatable)")
	artifactUpdateCmd.MarkFlagRequired("tracker")
}

func runArtifactUpdate(cmd *cobra.Command, args []string) error {
	artifactID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid artifact id %q", args[0])
	}
	values, err := parseFieldArgs(updateFields)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return fmt.Errorf("nothing to update, pass at least one --set")
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	if err := client.UpdateArtifact(context.Background(), artifactID, updateTracker, values); err != nil {
		return fmt.Errorf("update artifact %d: %w", artifactID, err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      artifactID,
			"updated": true,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Updated artifact %d\n", artifactID)
	return nil
}
