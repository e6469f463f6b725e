package main

import (
	"github.com/spf13/cobra"
)

var artifactCmd = &cobra.Command{
	Use:   "artifact",
	Short: "Read and write artifacts",
	Long:  "Get, create, update, and delete individual artifacts.",
}

func init() {
	artifactCmd.AddCommand(artifactGetCmd)
	artifactCmd.AddCommand(artifactCreateCmd)
	artifactCmd.AddCommand(artifactUpdateCmd)
	artifactCmd.AddCommand(artifactDeleteCmd)
}
