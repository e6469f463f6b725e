package tuleap

import (
	"encoding/json"
	"time"
)

// Timestamp formats are asymmetric on purpose: the service reports dates in
// US month-first form but accepts writes only in ISO-8601 without offset.
const (
	decodeTimeFormat = "01/02/2006 15:04:05"
	encodeTimeFormat = "2006-01-02T15:04:05"
)

// nullLabel is the literal sentinel stored for choice fields whose value is
// absent or cannot be resolved against the schema. Existing callers compare
// against it, so it must stay distinguishable from the null value.
const nullLabel = "null"

// decodeValue turns one wire fragment into a typed value, dispatching on the
// field's kind. It never fails: malformed fragments degrade to the null
// value (or the "null" sentinel for choice kinds). The second result is
// false for kinds that are not decoded at all (identifier, file, unknown).
func decodeValue(field *TrackerField, raw json.RawMessage) (Value, bool) {
	switch field.Kind() {
	case KindInteger:
		var frag struct {
			Value *int `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || frag.Value == nil {
			return NullValue(), true
		}
		return IntValue(*frag.Value), true

	case KindFloat:
		var frag struct {
			Value *float64 `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || frag.Value == nil {
			return NullValue(), true
		}
		return FloatValue(*frag.Value), true

	case KindPlainString:
		var frag struct {
			Value *string `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || frag.Value == nil {
			return NullValue(), true
		}
		return TextValue(*frag.Value), true

	case KindRichText:
		var frag struct {
			Value *string `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || frag.Value == nil {
			return NullValue(), true
		}
		return TextValue(stripHTML(*frag.Value)), true

	case KindSingleChoice, KindRadio:
		var frag struct {
			Values []struct {
				ID *int `json:"id"`
			} `json:"values"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || len(frag.Values) == 0 || frag.Values[0].ID == nil {
			return TextValue(nullLabel), true
		}
		label, ok := field.labelByID(*frag.Values[0].ID)
		if !ok {
			return TextValue(nullLabel), true
		}
		return TextValue(label), true

	case KindMultipleChoice, KindMultiCheckbox:
		var frag struct {
			Values []struct {
				ID *int `json:"id"`
			} `json:"values"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || len(frag.Values) == 0 {
			// An empty selection collapses to the sentinel text, not an
			// empty list.
			return TextValue(nullLabel), true
		}
		labels := make([]string, 0, len(frag.Values))
		for _, entry := range frag.Values {
			if entry.ID == nil {
				labels = append(labels, nullLabel)
				continue
			}
			label, ok := field.labelByID(*entry.ID)
			if !ok {
				label = nullLabel
			}
			labels = append(labels, label)
		}
		return LabelsValue(labels), true

	case KindDateTime, KindCreatedOn, KindUpdatedOn:
		var frag struct {
			Value *string `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || frag.Value == nil {
			return NullValue(), true
		}
		t, err := time.Parse(decodeTimeFormat, *frag.Value)
		if err != nil {
			return NullValue(), true
		}
		return TimeValue(t), true

	case KindCreatedBy, KindUpdatedBy:
		var frag struct {
			Value *struct {
				Username string `json:"username"`
			} `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil || frag.Value == nil {
			return NullValue(), true
		}
		return TextValue(frag.Value.Username), true

	case KindArtifactLinks:
		var frag struct {
			Links []struct {
				ID int `json:"id"`
			} `json:"links"`
			ReverseLinks []struct {
				ID int `json:"id"`
			} `json:"reverse_links"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil {
			return NullValue(), true
		}
		links := make([]ArtifactLink, 0, len(frag.Links)+len(frag.ReverseLinks))
		for _, entry := range frag.Links {
			links = append(links, ArtifactLink{ArtifactID: entry.ID})
		}
		for _, entry := range frag.ReverseLinks {
			links = append(links, ArtifactLink{ArtifactID: entry.ID, Reverse: true})
		}
		return LinksValue(links), true

	case KindCrossReference:
		var frag struct {
			Value []struct {
				Ref string `json:"ref"`
				URL string `json:"url"`
			} `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil {
			return NullValue(), true
		}
		links := make([]ArtifactLink, 0, len(frag.Value))
		for _, entry := range frag.Value {
			links = append(links, ArtifactLink{Reference: entry.Ref, URL: entry.URL})
		}
		return LinksValue(links), true

	case KindStepDefinitions:
		var frag struct {
			Value []StepDefinition `json:"value"`
		}
		if err := json.Unmarshal(raw, &frag); err != nil {
			return NullValue(), true
		}
		return StepsValue(frag.Value), true

	default:
		// Identifier comes from the read envelope, file attachments and
		// unmanaged types are skipped entirely.
		return Value{}, false
	}
}
