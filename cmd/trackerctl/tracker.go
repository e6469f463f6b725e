package main

import (
	"github.com/spf13/cobra"
)

var trackerCmd = &cobra.Command{
	Use:   "tracker",
	Short: "Inspect trackers",
	Long:  "Show tracker schemas and list their artifacts.",
}

func init() {
	trackerCmd.AddCommand(trackerShowCmd)
	trackerCmd.AddCommand(trackerArtifactsCmd)
}
