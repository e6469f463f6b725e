package tuleap

import "strings"

// FieldKind is the semantic type of a tracker field, derived from the short
// wire type tag the service reports in the tracker schema.
type FieldKind string

const (
	KindIdentifier      FieldKind = "identifier"
	KindInteger         FieldKind = "integer"
	KindFloat           FieldKind = "float"
	KindPlainString     FieldKind = "string"
	KindRichText        FieldKind = "text"
	KindSingleChoice    FieldKind = "single_choice"
	KindMultipleChoice  FieldKind = "multiple_choice"
	KindRadio           FieldKind = "radio"
	KindMultiCheckbox   FieldKind = "multi_checkbox"
	KindDateTime        FieldKind = "datetime"
	KindArtifactLinks   FieldKind = "artifact_links"
	KindCrossReference  FieldKind = "cross_reference"
	KindCreatedOn       FieldKind = "created_on"
	KindUpdatedOn       FieldKind = "updated_on"
	KindCreatedBy       FieldKind = "created_by"
	KindUpdatedBy       FieldKind = "updated_by"
	KindStepDefinitions FieldKind = "step_definitions"
	KindFile            FieldKind = "file"
	KindUnknown         FieldKind = "unknown"
)

// kindByType maps wire type tags to field kinds. Read-only after init.
var kindByType = map[string]FieldKind{
	"int":        KindInteger,
	"aid":        KindIdentifier,
	"float":      KindFloat,
	"string":     KindPlainString,
	"text":       KindRichText,
	"sb":         KindSingleChoice,
	"msb":        KindMultipleChoice,
	"rb":         KindRadio,
	"cb":         KindMultiCheckbox,
	"date":       KindDateTime,
	"art_link":   KindArtifactLinks,
	"cross":      KindCrossReference,
	"subon":      KindCreatedOn,
	"subby":      KindCreatedBy,
	"lud":        KindUpdatedOn,
	"luby":       KindUpdatedBy,
	"ttmstepdef": KindStepDefinitions,
	"file":       KindFile,
}

// KindOf resolves a wire type tag to its field kind. Tags the library does
// not manage resolve to KindUnknown, never an error.
func KindOf(wireType string) FieldKind {
	if kind, ok := kindByType[wireType]; ok {
		return kind
	}
	return KindUnknown
}

// EnumEntry is one allowed value of a choice field. Callers exchange labels;
// the wire exchanges ids.
type EnumEntry struct {
	ID    int    `json:"id"`
	Label string `json:"label"`
}

// TrackerField describes one field of a tracker schema. It is immutable
// after the schema response has been decoded into it.
type TrackerField struct {
	ID     int         `json:"field_id"`
	Label  string      `json:"label"`
	Name   string      `json:"name"`
	Type   string      `json:"type"`
	Values []EnumEntry `json:"values,omitempty"`
}

// Kind returns the semantic kind derived from the wire type tag.
func (f *TrackerField) Kind() FieldKind {
	return KindOf(f.Type)
}

// labelByID resolves a choice value id against the field's allowed values.
func (f *TrackerField) labelByID(id int) (string, bool) {
	for _, entry := range f.Values {
		if entry.ID == id {
			return entry.Label, true
		}
	}
	return "", false
}

// idByLabel resolves a choice label against the field's allowed values.
func (f *TrackerField) idByLabel(label string) (int, bool) {
	for _, entry := range f.Values {
		if entry.Label == label {
			return entry.ID, true
		}
	}
	return 0, false
}

// TrackerStructure is the decoded schema of one tracker: its id, item name
// and the ordered list of fields.
type TrackerStructure struct {
	ID       int            `json:"id"`
	ItemName string         `json:"item_name"`
	Fields   []TrackerField `json:"fields"`
}

// Field looks up a field by name, case-insensitively. Returns nil when the
// tracker has no field with that name.
func (s *TrackerStructure) Field(name string) *TrackerField {
	for i := range s.Fields {
		if strings.EqualFold(s.Fields[i].Name, name) {
			return &s.Fields[i]
		}
	}
	return nil
}

// StepDefinition is one test-step record of a step-definition field.
type StepDefinition struct {
	ID              int    `json:"id"`
	Description     string `json:"description"`
	ExpectedResults string `json:"expected_results"`
	Rank            int    `json:"rank"`
}
