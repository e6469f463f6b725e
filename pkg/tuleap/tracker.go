package tuleap

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
)

// artifactPageSize is the page size of the artifact listing endpoint. Every
// non-terminal page returns exactly this many summaries, which is what
// guarantees the pagination loop terminates.
const artifactPageSize = 100

// Tracker is the catalog view of one tracker: its metadata and the ordered
// set of artifact ids known from the last Refresh.
type Tracker struct {
	Structure   *TrackerStructure
	Label       string
	Description string
	ItemName    string
	ArtifactIDs []int

	client *Client
}

// Tracker fetches the structure of the given tracker and refreshes its
// metadata and artifact listing.
func (c *Client) Tracker(ctx context.Context, trackerID int) (*Tracker, error) {
	structure, err := c.Structure(ctx, trackerID)
	if err != nil {
		return nil, err
	}
	t := &Tracker{Structure: structure, client: c}
	if err := t.Refresh(ctx); err != nil {
		return nil, err
	}
	return t, nil
}

// Refresh re-reads the tracker metadata and re-lists the artifact ids.
func (t *Tracker) Refresh(ctx context.Context) error {
	body, err := t.client.conn.Get(ctx, fmt.Sprintf("trackers/%d", t.Structure.ID))
	if err != nil {
		return fmt.Errorf("tracker %d metadata: %w", t.Structure.ID, err)
	}
	var meta struct {
		Label       string `json:"label"`
		Description string `json:"description"`
		ItemName    string `json:"item_name"`
	}
	if err := json.Unmarshal(body, &meta); err != nil {
		return fmt.Errorf("decode tracker %d metadata: %w", t.Structure.ID, err)
	}
	t.Label = meta.Label
	t.Description = meta.Description
	t.ItemName = meta.ItemName

	ids, err := t.client.ListArtifactIDs(ctx, t.Structure.ID)
	if err != nil {
		return err
	}
	t.ArtifactIDs = ids
	return nil
}

// Artifacts fetches every artifact listed by the last Refresh, in order.
// When onRetrieved is non-nil it is called once per fetched artifact, so
// callers can stream long listings instead of waiting for the whole slice.
func (t *Tracker) Artifacts(ctx context.Context, onRetrieved func(*Artifact)) ([]*Artifact, error) {
	artifacts := make([]*Artifact, 0, len(t.ArtifactIDs))
	for _, id := range t.ArtifactIDs {
		artifact, err := t.client.Artifact(ctx, id)
		if err != nil {
			return artifacts, err
		}
		artifacts = append(artifacts, artifact)
		if onRetrieved != nil {
			onRetrieved(artifact)
		}
	}
	return artifacts, nil
}

// DeleteAll deletes every artifact of the tracker and refreshes the listing.
func (t *Tracker) DeleteAll(ctx context.Context) error {
	if err := t.Refresh(ctx); err != nil {
		return err
	}
	for _, id := range t.ArtifactIDs {
		if err := t.client.DeleteArtifact(ctx, id); err != nil {
			return err
		}
	}
	return t.Refresh(ctx)
}

// ListArtifactIDs pages through the artifact listing of a tracker and
// returns all ids in server order. The loop stops at the first page shorter
// than the page size or at an empty body; a transport failure on any page
// aborts the whole listing.
func (c *Client) ListArtifactIDs(ctx context.Context, trackerID int) ([]int, error) {
	var ids []int
	for offset := 0; ; offset += artifactPageSize {
		body, err := c.conn.Get(ctx, fmt.Sprintf("trackers/%d/artifacts?limit=%d&offset=%d", trackerID, artifactPageSize, offset))
		if err != nil {
			return nil, err
		}
		if len(bytes.TrimSpace(body)) == 0 {
			break
		}
		var page []struct {
			ID int `json:"id"`
		}
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, fmt.Errorf("decode artifact page at offset %d: %w", offset, err)
		}
		for _, entry := range page {
			ids = append(ids, entry.ID)
		}
		if len(page) < artifactPageSize {
			break
		}
	}
	return ids, nil
}
