package tuleap

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Artifact is one record of a tracker: its id, the owning tracker, and the
// decoded field values keyed by field name.
type Artifact struct {
	ID          int
	TrackerID   int
	TrackerName string

	values map[string]Value
}

// InvalidArtifact is the sentinel record returned by lookups that fail.
var InvalidArtifact = Artifact{ID: -1}

// FieldValue returns the decoded value of a field by name. The second
// result is false when the record carries no entry for that name.
func (a *Artifact) FieldValue(name string) (Value, bool) {
	v, ok := a.values[name]
	return v, ok
}

// FieldText returns the display form of a field value, or the empty string
// when the record has no entry for that name.
func (a *Artifact) FieldText(name string) string {
	v, ok := a.values[name]
	if !ok {
		return ""
	}
	return v.String()
}

// Values returns a copy of the decoded value map.
func (a *Artifact) Values() map[string]Value {
	out := make(map[string]Value, len(a.values))
	for name, v := range a.values {
		out[name] = v
	}
	return out
}

// populate decodes a read response against the tracker structure. The value
// map is replaced wholesale: every structure field ends up with an entry
// (null when the payload has no fragment for it), except for the kinds the
// codec skips.
func (a *Artifact) populate(structure *TrackerStructure, body []byte) error {
	var env struct {
		ID      int    `json:"id"`
		Xref    string `json:"xref"`
		Tracker struct {
			ID    int    `json:"id"`
			Label string `json:"label"`
		} `json:"tracker"`
		Values []json.RawMessage `json:"values"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return fmt.Errorf("decode artifact %d: %w", a.ID, err)
	}

	fragments := make(map[int]json.RawMessage, len(env.Values))
	for _, raw := range env.Values {
		var head struct {
			FieldID *int `json:"field_id"`
		}
		if err := json.Unmarshal(raw, &head); err != nil || head.FieldID == nil {
			continue
		}
		fragments[*head.FieldID] = raw
	}

	a.ID = env.ID
	a.TrackerID = env.Tracker.ID
	a.TrackerName = env.Tracker.Label
	a.values = map[string]Value{
		"aid":  IntValue(env.ID),
		"xref": TextValue(env.Xref),
	}

	for i := range structure.Fields {
		field := &structure.Fields[i]
		if field.Kind() == KindIdentifier {
			// Already captured from the envelope.
			continue
		}
		raw, ok := fragments[field.ID]
		if !ok {
			a.values[field.Name] = NullValue()
			continue
		}
		if v, store := decodeValue(field, raw); store {
			a.values[field.Name] = v
		}
	}
	return nil
}

// String dumps the record as one "[field] = value" line per entry.
func (a *Artifact) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[aid] = %d\n", a.ID)
	names := make([]string, 0, len(a.values))
	for name := range a.values {
		if name != "aid" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(&b, "[%s] = %s\n", name, a.values[name])
	}
	return b.String()
}
