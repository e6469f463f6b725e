package tuleap

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// ValueKind discriminates the variants of a decoded field value.
type ValueKind string

const (
	ValueNull   ValueKind = "null"
	ValueInt    ValueKind = "int"
	ValueFloat  ValueKind = "float"
	ValueText   ValueKind = "text"
	ValueLabels ValueKind = "labels"
	ValueTime   ValueKind = "time"
	ValueLinks  ValueKind = "links"
	ValueSteps  ValueKind = "steps"
)

// Value is the decoded form of one artifact field. Exactly one variant is
// populated, selected by Kind; the zero Value is the null value.
//
// Choice fields decode to ValueText (single) or ValueLabels (multiple) using
// the human-facing labels. An unresolved or absent choice decodes to the
// literal text "null" rather than the null value; callers compare against
// that sentinel, so it is kept distinguishable from true absence.
type Value struct {
	Kind   ValueKind
	Int    int
	Float  float64
	Text   string
	Labels []string
	Time   time.Time
	Links  []ArtifactLink
	Steps  []StepDefinition
}

// NullValue returns the null value.
func NullValue() Value { return Value{Kind: ValueNull} }

// IntValue wraps an integer.
func IntValue(n int) Value { return Value{Kind: ValueInt, Int: n} }

// FloatValue wraps a float.
func FloatValue(f float64) Value { return Value{Kind: ValueFloat, Float: f} }

// TextValue wraps a string.
func TextValue(s string) Value { return Value{Kind: ValueText, Text: s} }

// LabelsValue wraps a multi-choice label list.
func LabelsValue(labels []string) Value { return Value{Kind: ValueLabels, Labels: labels} }

// TimeValue wraps a timestamp.
func TimeValue(t time.Time) Value { return Value{Kind: ValueTime, Time: t} }

// LinksValue wraps an artifact link list.
func LinksValue(links []ArtifactLink) Value { return Value{Kind: ValueLinks, Links: links} }

// StepsValue wraps a step-definition list.
func StepsValue(steps []StepDefinition) Value { return Value{Kind: ValueSteps, Steps: steps} }

// IsNull reports whether the value is the null value. The "null" text
// sentinel of choice fields is not null.
func (v Value) IsNull() bool {
	return v.Kind == "" || v.Kind == ValueNull
}

// String renders the value for display. Lists join their elements with ";",
// matching the record dump format of the service's other clients.
func (v Value) String() string {
	switch v.Kind {
	case ValueInt:
		return strconv.Itoa(v.Int)
	case ValueFloat:
		return strconv.FormatFloat(v.Float, 'f', -1, 64)
	case ValueText:
		return v.Text
	case ValueLabels:
		return strings.Join(v.Labels, ";")
	case ValueTime:
		return v.Time.Format("2006-01-02 15:04:05")
	case ValueLinks:
		parts := make([]string, len(v.Links))
		for i, l := range v.Links {
			parts[i] = l.String()
		}
		return strings.Join(parts, ";")
	case ValueSteps:
		parts := make([]string, len(v.Steps))
		for i, s := range v.Steps {
			parts[i] = s.Description
		}
		return strings.Join(parts, ";")
	default:
		return ""
	}
}

// valueJSON is the storage envelope for Value. Only the discriminator and
// the populated variant are emitted.
type valueJSON struct {
	Kind   ValueKind        `json:"kind"`
	Int    *int             `json:"int,omitempty"`
	Float  *float64         `json:"float,omitempty"`
	Text   *string          `json:"text,omitempty"`
	Labels []string         `json:"labels,omitempty"`
	Time   *time.Time       `json:"time,omitempty"`
	Links  []storedLink     `json:"links,omitempty"`
	Steps  []StepDefinition `json:"steps,omitempty"`
}

type storedLink struct {
	ID        int    `json:"id"`
	Reference string `json:"reference,omitempty"`
	URL       string `json:"url,omitempty"`
	Reverse   bool   `json:"reverse,omitempty"`
}

// MarshalJSON implements json.Marshaler. The encoding is the library's own
// storage envelope (used by the local mirror), not a wire fragment.
func (v Value) MarshalJSON() ([]byte, error) {
	out := valueJSON{Kind: v.Kind}
	if out.Kind == "" {
		out.Kind = ValueNull
	}
	switch v.Kind {
	case ValueInt:
		out.Int = &v.Int
	case ValueFloat:
		out.Float = &v.Float
	case ValueText:
		out.Text = &v.Text
	case ValueLabels:
		out.Labels = v.Labels
	case ValueTime:
		out.Time = &v.Time
	case ValueLinks:
		out.Links = make([]storedLink, len(v.Links))
		for i, l := range v.Links {
			out.Links[i] = storedLink{ID: l.ArtifactID, Reference: l.Reference, URL: l.URL, Reverse: l.Reverse}
		}
	case ValueSteps:
		out.Steps = v.Steps
	}
	return json.Marshal(out)
}

// UnmarshalJSON implements json.Unmarshaler for the storage envelope.
func (v *Value) UnmarshalJSON(data []byte) error {
	var in valueJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	*v = Value{Kind: in.Kind}
	switch in.Kind {
	case ValueInt:
		if in.Int != nil {
			v.Int = *in.Int
		}
	case ValueFloat:
		if in.Float != nil {
			v.Float = *in.Float
		}
	case ValueText:
		if in.Text != nil {
			v.Text = *in.Text
		}
	case ValueLabels:
		v.Labels = in.Labels
	case ValueTime:
		if in.Time != nil {
			v.Time = *in.Time
		}
	case ValueLinks:
		v.Links = make([]ArtifactLink, len(in.Links))
		for i, l := range in.Links {
			v.Links[i] = ArtifactLink{ArtifactID: l.ID, Reference: l.Reference, URL: l.URL, Reverse: l.Reverse}
		}
	case ValueSteps:
		v.Steps = in.Steps
	}
	return nil
}
