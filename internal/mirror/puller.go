package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hyperengineering/tuleap-go/pkg/tuleap"
)

// Puller replicates trackers from the live service into the mirror.
type Puller struct {
	client *tuleap.Client
	store  *Store
	logger *slog.Logger
}

// NewPuller creates a puller over an authenticated client and an open store.
func NewPuller(client *tuleap.Client, store *Store, logger *slog.Logger) *Puller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Puller{client: client, store: store, logger: logger}
}

// Pull replicates the given trackers. Each tracker's metadata is saved first,
// then every listed artifact is fetched, decoded, and upserted. A failure on
// any tracker aborts the run; the pull row keeps the counts reached so far.
func (p *Puller) Pull(ctx context.Context, trackerIDs []int) (*Pull, error) {
	pull, err := p.store.BeginPull(ctx)
	if err != nil {
		return nil, err
	}
	p.logger.Info("pull started", "pull_id", pull.ID, "trackers", len(trackerIDs))

	for _, trackerID := range trackerIDs {
		if err := p.pullTracker(ctx, pull, trackerID); err != nil {
			p.logger.Error("pull failed", "pull_id", pull.ID, "tracker_id", trackerID, "error", err)
			return pull, fmt.Errorf("pull tracker %d: %w", trackerID, err)
		}
		pull.TrackerCount++
	}

	if err := p.store.FinishPull(ctx, pull); err != nil {
		return pull, err
	}
	p.logger.Info("pull finished",
		"pull_id", pull.ID,
		"trackers", pull.TrackerCount,
		"artifacts", pull.ArtifactCount)
	return pull, nil
}

func (p *Puller) pullTracker(ctx context.Context, pull *Pull, trackerID int) error {
	tracker, err := p.client.Tracker(ctx, trackerID)
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	err = p.store.SaveTracker(ctx, TrackerRecord{
		ID:          trackerID,
		Label:       tracker.Label,
		Description: tracker.Description,
		ItemName:    tracker.ItemName,
		PulledAt:    now,
	})
	if err != nil {
		return err
	}
	p.logger.Debug("tracker saved", "tracker_id", trackerID, "artifacts", len(tracker.ArtifactIDs))

	var saveErr error
	_, err = tracker.Artifacts(ctx, func(artifact *tuleap.Artifact) {
		if saveErr != nil {
			return
		}
		saveErr = p.store.SaveArtifact(ctx, ArtifactRecord{
			ID:        artifact.ID,
			TrackerID: trackerID,
			Xref:      artifact.FieldText("xref"),
			Values:    artifact.Values(),
			PullID:    pull.ID,
			PulledAt:  now,
		})
		if saveErr == nil {
			pull.ArtifactCount++
		}
	})
	if err != nil {
		return err
	}
	return saveErr
}
