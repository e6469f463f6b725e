package main

import (
	"bufio"
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var deleteForce bool

var artifactDeleteCmd = &cobra.Command{
	Use:   "delete <artifact-id>",
	Short: "Delete an artifact",
	Args:  cobra.ExactArgs(1),
	RunE:  runArtifactDelete,
}

func init() {
	artifactDeleteCmd.Flags().BoolVar(&deleteForce, "force", false,
		"Skip the confirmation prompt")
}

func runArtifactDelete(cmd *cobra.Command, args []string) error {
	artifactID, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid artifact id %q", args[0])
	}

	if !deleteForce {
		fmt.Fprintf(cmd.OutOrStdout(), "Type the artifact id to confirm deletion: ")
		scanner := bufio.NewScanner(cmd.InOrStdin())
		if !scanner.Scan() || scanner.Text() != args[0] {
			fmt.Fprintln(cmd.ErrOrStderr(), "Aborted.")
			return nil
		}
	}

	client, _, err := resolveClient()
	if err != nil {
		return err
	}

	if err := client.DeleteArtifact(context.Background(), artifactID); err != nil {
		return fmt.Errorf("delete artifact %d: %w", artifactID, err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"id":      artifactID,
			"deleted": true,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Deleted artifact %d\n", artifactID)
	return nil
}
