package tuleap

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Client wraps a Connection with the tracker-structure cache and the
// artifact read/write operations. The cache is owned by the client: each
// tracker structure is fetched at most once per client, and asking again
// returns the cached instance.
type Client struct {
	conn Connection

	mu         sync.RWMutex
	structures map[int]*TrackerStructure
}

// NewClient creates a client on top of an existing connection.
func NewClient(conn Connection) *Client {
	return &Client{
		conn:       conn,
		structures: make(map[int]*TrackerStructure),
	}
}

// Structure returns the schema of the given tracker, fetching it on first
// use and serving the cached instance afterwards.
func (c *Client) Structure(ctx context.Context, trackerID int) (*TrackerStructure, error) {
	c.mu.RLock()
	structure, ok := c.structures[trackerID]
	c.mu.RUnlock()
	if ok {
		return structure, nil
	}

	body, err := c.conn.Get(ctx, fmt.Sprintf("trackers/%d", trackerID))
	if err != nil {
		return nil, err
	}
	fetched := &TrackerStructure{}
	if err := json.Unmarshal(body, fetched); err != nil {
		return nil, fmt.Errorf("decode tracker %d structure: %w", trackerID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if cached, ok := c.structures[trackerID]; ok {
		return cached, nil
	}
	c.structures[trackerID] = fetched
	return fetched, nil
}

// Artifact reads one artifact and decodes its field values against the
// owning tracker's structure. The structure is resolved from the read
// envelope and fetched if this client has not seen the tracker yet.
func (c *Client) Artifact(ctx context.Context, id int) (*Artifact, error) {
	body, err := c.conn.Get(ctx, fmt.Sprintf("artifacts/%d?values_format=collection&tracker_structure_format=complete", id))
	if err != nil {
		return nil, err
	}
	if len(body) == 0 {
		return nil, ErrEmptyResponse
	}

	var env struct {
		Tracker struct {
			ID int `json:"id"`
		} `json:"tracker"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("decode artifact %d: %w", id, err)
	}

	structure, err := c.Structure(ctx, env.Tracker.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: tracker %d: %v", ErrUnknownTracker, env.Tracker.ID, err)
	}

	artifact := &Artifact{ID: id}
	if err := artifact.populate(structure, body); err != nil {
		return nil, err
	}
	return artifact, nil
}

// CreateArtifact creates a new artifact from a field-name→value map and
// returns its record with the assigned id. Names with no matching field are
// skipped; an unencodable value fails the whole create.
func (c *Client) CreateArtifact(ctx context.Context, trackerID int, values map[string]any) (*Artifact, error) {
	structure, err := c.Structure(ctx, trackerID)
	if err != nil {
		return nil, err
	}

	fragments, err := encodeFields(structure, values)
	if err != nil {
		return nil, err
	}
	body, err := json.Marshal(struct {
		Tracker struct {
			ID int `json:"id"`
		} `json:"tracker"`
		Values []json.RawMessage `json:"values"`
	}{struct {
		ID int `json:"id"`
	}{trackerID}, fragments})
	if err != nil {
		return nil, err
	}

	resp, err := c.conn.Post(ctx, "artifacts", body)
	if err != nil {
		return nil, err
	}
	var created struct {
		ID int `json:"id"`
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return nil, fmt.Errorf("decode create response: %w", err)
	}

	return &Artifact{ID: created.ID, TrackerID: trackerID}, nil
}

// UpdateArtifact writes all given field values in a single request.
func (c *Client) UpdateArtifact(ctx context.Context, artifactID, trackerID int, values map[string]any) error {
	structure, err := c.Structure(ctx, trackerID)
	if err != nil {
		return err
	}
	fragments, err := encodeFields(structure, values)
	if err != nil {
		return err
	}
	if len(fragments) == 0 {
		return nil
	}
	return c.putValues(ctx, artifactID, fragments)
}

// UpdateField writes one field value as its own request. This is the legacy
// update path: callers updating several fields issue one request per field,
// so partial failure across fields is possible.
func (c *Client) UpdateField(ctx context.Context, artifactID, trackerID int, fieldName string, value any) error {
	structure, err := c.Structure(ctx, trackerID)
	if err != nil {
		return err
	}
	field := structure.Field(fieldName)
	if field == nil {
		return nil
	}
	fragment, err := encodeValue(field, value)
	if err != nil {
		return err
	}
	if fragment == nil {
		return nil
	}
	return c.putValues(ctx, artifactID, []json.RawMessage{fragment})
}

// DeleteArtifact deletes one artifact.
func (c *Client) DeleteArtifact(ctx context.Context, artifactID int) error {
	return c.conn.Delete(ctx, fmt.Sprintf("artifacts/%d", artifactID))
}

func (c *Client) putValues(ctx context.Context, artifactID int, fragments []json.RawMessage) error {
	body, err := json.Marshal(struct {
		Values []json.RawMessage `json:"values"`
	}{fragments})
	if err != nil {
		return err
	}
	_, err = c.conn.Put(ctx, fmt.Sprintf("artifacts/%d", artifactID), body)
	return err
}

// encodeFields resolves a name→value map against the structure and encodes
// every resolvable entry. Unknown names and empty fragments drop out.
func encodeFields(structure *TrackerStructure, values map[string]any) ([]json.RawMessage, error) {
	fragments := make([]json.RawMessage, 0, len(values))
	for name, value := range values {
		field := structure.Field(name)
		if field == nil {
			continue
		}
		fragment, err := encodeValue(field, value)
		if err != nil {
			return nil, err
		}
		if fragment == nil {
			continue
		}
		fragments = append(fragments, fragment)
	}
	return fragments, nil
}
