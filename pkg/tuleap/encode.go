package tuleap

import (
	"encoding/json"
	"fmt"
	"time"
)

// encodeValue turns a caller-supplied value into the kind-specific wire
// fragment used inside the "values" array of a create or update body.
//
// A nil fragment with a nil error means the field is omitted from the
// request: unresolvable choice labels and server-managed kinds drop out
// silently rather than failing the write.
func encodeValue(field *TrackerField, value any) (json.RawMessage, error) {
	if v, ok := value.(Value); ok {
		value = v.native()
	}

	switch field.Kind() {
	case KindInteger, KindFloat:
		return json.Marshal(struct {
			FieldID int `json:"field_id"`
			Value   any `json:"value"`
		}{field.ID, value})

	case KindPlainString, KindRichText:
		return json.Marshal(struct {
			FieldID int    `json:"field_id"`
			Value   string `json:"value"`
		}{field.ID, asText(value)})

	case KindDateTime:
		t, ok := asTime(value)
		if !ok {
			return nil, &EncodeError{Field: field.Name, Kind: field.Kind()}
		}
		return json.Marshal(struct {
			FieldID int    `json:"field_id"`
			Value   string `json:"value"`
		}{field.ID, t.Format(encodeTimeFormat)})

	case KindSingleChoice, KindRadio:
		id, ok := field.idByLabel(asText(value))
		if !ok {
			return nil, nil
		}
		return json.Marshal(struct {
			FieldID      int   `json:"field_id"`
			BindValueIDs []int `json:"bind_value_ids"`
		}{field.ID, []int{id}})

	case KindMultipleChoice, KindMultiCheckbox:
		ids := make([]int, 0)
		for _, label := range asLabels(value) {
			if id, ok := field.idByLabel(label); ok {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			return nil, nil
		}
		return json.Marshal(struct {
			FieldID      int   `json:"field_id"`
			BindValueIDs []int `json:"bind_value_ids"`
		}{field.ID, ids})

	case KindArtifactLinks:
		links, ok := asLinks(value)
		if !ok {
			return nil, &EncodeError{Field: field.Name, Kind: field.Kind()}
		}
		type wireLink struct {
			ID int `json:"id"`
		}
		out := make([]wireLink, len(links))
		for i, l := range links {
			out[i] = wireLink{ID: l.ID()}
		}
		return json.Marshal(struct {
			FieldID int        `json:"field_id"`
			Links   []wireLink `json:"links"`
		}{field.ID, out})

	case KindCrossReference:
		// Write-side cross references carry only the numeric id under
		// "ref", unlike the read side which reports a "name#id" string.
		// The live service expects exactly this shape.
		links, ok := asLinks(value)
		if !ok {
			return nil, &EncodeError{Field: field.Name, Kind: field.Kind()}
		}
		type wireRef struct {
			Ref int `json:"ref"`
		}
		out := make([]wireRef, len(links))
		for i, l := range links {
			out[i] = wireRef{Ref: l.ID()}
		}
		return json.Marshal(struct {
			FieldID int       `json:"field_id"`
			Value   []wireRef `json:"value"`
		}{field.ID, out})

	case KindStepDefinitions:
		steps, ok := asSteps(value)
		if !ok {
			return nil, &EncodeError{Field: field.Name, Kind: field.Kind()}
		}
		type wireStep struct {
			ID                    int    `json:"id"`
			Description           string `json:"description"`
			DescriptionFormat     string `json:"description_format"`
			ExpectedResults       string `json:"expected_results"`
			ExpectedResultsFormat string `json:"expected_results_format"`
			Rank                  int    `json:"rank"`
		}
		out := make([]wireStep, len(steps))
		for i, s := range steps {
			out[i] = wireStep{
				ID:                    s.ID,
				Description:           s.Description,
				DescriptionFormat:     stepFormat(s.Description),
				ExpectedResults:       s.ExpectedResults,
				ExpectedResultsFormat: stepFormat(s.ExpectedResults),
				Rank:                  s.Rank,
			}
		}
		return json.Marshal(struct {
			FieldID int        `json:"field_id"`
			Type    string     `json:"type"`
			Value   []wireStep `json:"value"`
		}{field.ID, "ttmstepdef", out})

	case KindIdentifier, KindCreatedOn, KindUpdatedOn, KindCreatedBy, KindUpdatedBy, KindFile, KindUnknown:
		// Server-managed or unsupported; never part of a write body.
		return nil, nil

	default:
		return nil, &EncodeError{Field: field.Name, Kind: field.Kind()}
	}
}

// stepFormat picks the content format flag for one step text.
func stepFormat(s string) string {
	if isHTML(s) {
		return "html"
	}
	return "text"
}

// native unwraps a decoded Value back into the plain Go form encodeValue
// accepts, so values read from one artifact can be written to another.
func (v Value) native() any {
	switch v.Kind {
	case ValueInt:
		return v.Int
	case ValueFloat:
		return v.Float
	case ValueText:
		return v.Text
	case ValueLabels:
		return v.Labels
	case ValueTime:
		return v.Time
	case ValueLinks:
		return v.Links
	case ValueSteps:
		return v.Steps
	default:
		return nil
	}
}

func asText(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return fmt.Sprint(value)
}

func asTime(value any) (time.Time, bool) {
	switch t := value.(type) {
	case time.Time:
		return t, true
	case *time.Time:
		if t != nil {
			return *t, true
		}
	}
	return time.Time{}, false
}

func asLabels(value any) []string {
	switch v := value.(type) {
	case []string:
		return v
	case []any:
		labels := make([]string, len(v))
		for i, e := range v {
			labels[i] = asText(e)
		}
		return labels
	case string:
		return []string{v}
	case nil:
		return nil
	default:
		return []string{asText(v)}
	}
}

func asLinks(value any) ([]ArtifactLink, bool) {
	switch v := value.(type) {
	case []ArtifactLink:
		return v, true
	case ArtifactLink:
		return []ArtifactLink{v}, true
	case []int:
		links := make([]ArtifactLink, len(v))
		for i, id := range v {
			links[i] = ArtifactLink{ArtifactID: id}
		}
		return links, true
	case int:
		return []ArtifactLink{{ArtifactID: v}}, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}

func asSteps(value any) ([]StepDefinition, bool) {
	switch v := value.(type) {
	case []StepDefinition:
		return v, true
	case StepDefinition:
		return []StepDefinition{v}, true
	case nil:
		return nil, true
	default:
		return nil, false
	}
}
