package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hyperengineering/tuleap-go/internal/mirror"
)

var pullMirrorPath string

var pullCmd = &cobra.Command{
	Use:   "pull [tracker-id...]",
	Short: "Replicate trackers into the local mirror",
	Long: "Fetch tracker metadata and all artifacts into the local SQLite mirror. " +
		"Without arguments the configured tracker list is pulled.",
	RunE: runPull,
}

func init() {
	pullCmd.Flags().StringVar(&pullMirrorPath, "db", "",
		"Mirror database path (overrides config and TRACKER_MIRROR_PATH)")
}

func runPull(cmd *cobra.Command, args []string) error {
	client, cfg, err := resolveClient()
	if err != nil {
		return err
	}

	trackerIDs := cfg.Pull.Trackers
	if len(args) > 0 {
		trackerIDs = trackerIDs[:0:0]
		for _, arg := range args {
			id, err := strconv.Atoi(arg)
			if err != nil {
				return fmt.Errorf("invalid tracker id %q", arg)
			}
			trackerIDs = append(trackerIDs, id)
		}
	}
	if len(trackerIDs) == 0 {
		return fmt.Errorf("no trackers to pull, pass ids or set pull.trackers")
	}

	dbPath := pullMirrorPath
	if dbPath == "" {
		dbPath = cfg.Mirror.Path
	}
	store, err := mirror.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open mirror: %w", err)
	}
	defer store.Close()

	puller := mirror.NewPuller(client, store, slog.Default())
	pull, err := puller.Pull(context.Background(), trackerIDs)
	if err != nil {
		return fmt.Errorf("pull: %w", err)
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), map[string]any{
			"pull_id":   pull.ID,
			"trackers":  pull.TrackerCount,
			"artifacts": pull.ArtifactCount,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Pulled %d trackers, %d artifacts (pull %s)\n",
		pull.TrackerCount, pull.ArtifactCount, pull.ID)
	return nil
}
