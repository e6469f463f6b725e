package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var createFields []string

var artifactCreateCmd = &cobra.Command{
	Use:   "create <tracker-id>",
	Short: "Create an artifact from field assignments",
	Args:  cobra.ExactArgs(1),
	RunE:  runArtifactCreate,
}

func init() {
	artifactCreateCmd.Flags().StringArrayVar(&createFields, "set", nil,
		"Field assignment as name=value (repeatable)")
}

func runArtifactCreate(cmd *cobra.Command, args []string) error {
	trackerID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid tracker id %q", args[0])
	}
	values, err := parseFieldArgs(createFields)
	if err != nil {
		return err
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	artifact, err := client.CreateArtifact(context.Background(), trackerID, values)
	if err != nil {
		return fmt.Errorf("create artifact: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      artifact.ID,
			"tracker": trackerID,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created artifact %d in tracker %d\n", artifact.ID, trackerID)
	return nil
}
