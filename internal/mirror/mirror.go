// Package mirror maintains a local SQLite copy of tracker contents. Pulls
// replicate tracker metadata and decoded artifact values so queries and
// exports work without hitting the live service.
package mirror

import (
	"time"

	"github.com/hyperengineering/tuleap-go/pkg/tuleap"
)

// TrackerRecord is the mirrored metadata of one tracker.
type TrackerRecord struct {
	ID          int
	Label       string
	Description string
	ItemName    string
	PulledAt    time.Time
}

// ArtifactRecord is one mirrored artifact: its envelope plus the decoded
// field values, keyed by field name.
type ArtifactRecord struct {
	ID        int
	TrackerID int
	Xref      string
	Values    map[string]tuleap.Value
	PullID    string
	PulledAt  time.Time
}

// Pull describes one replication run.
type Pull struct {
	ID            string
	StartedAt     time.Time
	FinishedAt    *time.Time
	TrackerCount  int
	ArtifactCount int
}
