package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var artifactGetCmd = &cobra.Command{
	Use:   "get <artifact-id>",
	Short: "Fetch one artifact and print its field values",
	Args:  cobra.ExactArgs(1),
	RunE:  runArtifactGet,
}

func runArtifactGet(cmd *cobra.Command, args []string) error {
	artifactID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid artifact id %q", args[0])
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	artifact, err := client.Artifact(context.Background(), artifactID)
	if err != nil {
		return fmt.Errorf("fetch artifact %d: %w", artifactID, err)
	}

	if jsonOutput {
		values := map[string]string{}
		for name := range artifact.Values() {
			values[name] = artifact.FieldText(name)
		}
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      artifact.ID,
			"tracker": artifact.TrackerID,
			"values":  values,
		})
	}

	fmt.Fprint(cmd.OutOrStdout(), artifact.String())
	return nil
}
