package tuleap

import (
	"encoding/json"
	"testing"
)

func TestKindOf(t *testing.T) {
	cases := []struct {
		wireType string
		want     FieldKind
	}{
		{"int", KindInteger},
		{"aid", KindIdentifier},
		{"float", KindFloat},
		{"string", KindPlainString},
		{"text", KindRichText},
		{"sb", KindSingleChoice},
		{"msb", KindMultipleChoice},
		{"rb", KindRadio},
		{"cb", KindMultiCheckbox},
		{"date", KindDateTime},
		{"art_link", KindArtifactLinks},
		{"cross", KindCrossReference},
		{"subon", KindCreatedOn},
		{"subby", KindCreatedBy},
		{"lud", KindUpdatedOn},
		{"luby", KindUpdatedBy},
		{"ttmstepdef", KindStepDefinitions},
		{"file", KindFile},
		{"bogus", KindUnknown},
		{"", KindUnknown},
	}
	for _, tc := range cases {
		if got := KindOf(tc.wireType); got != tc.want {
			t.Errorf("KindOf(%q) = %s, want %s", tc.wireType, got, tc.want)
		}
	}
}

func TestStructureFieldLookupIsCaseInsensitive(t *testing.T) {
	s := testStructure()

	f := s.Field("SUMMARY")
	if f == nil {
		t.Fatal("expected field for SUMMARY")
	}
	if f.ID != 30 {
		t.Errorf("expected field 30, got %d", f.ID)
	}

	if s.Field("no_such_field") != nil {
		t.Error("expected nil for unknown field name")
	}
}

func TestStructureDecodesFromSchemaJSON(t *testing.T) {
	body := `{
		"id": 1041,
		"label": "Tickets",
		"item_name": "ticket",
		"fields": [
			{"field_id": 20, "label": "My Choice", "name": "mychoice", "type": "sb",
			 "values": [{"id": 1, "label": "one"}, {"id": 2, "label": "two"}]},
			{"field_id": 30, "label": "Summary", "name": "summary", "type": "string"}
		]
	}`

	var s TrackerStructure
	if err := json.Unmarshal([]byte(body), &s); err != nil {
		t.Fatalf("unmarshal structure: %v", err)
	}

	if s.ID != 1041 || s.ItemName != "ticket" {
		t.Errorf("unexpected envelope: id=%d item_name=%q", s.ID, s.ItemName)
	}
	if len(s.Fields) != 2 {
		t.Fatalf("expected 2 fields, got %d", len(s.Fields))
	}
	choice := s.Field("mychoice")
	if choice.Kind() != KindSingleChoice {
		t.Errorf("expected single choice kind, got %s", choice.Kind())
	}
	if len(choice.Values) != 2 || choice.Values[1].Label != "two" {
		t.Errorf("unexpected enum values: %+v", choice.Values)
	}
}

func TestChoiceResolution(t *testing.T) {
	f := testStructure().Field("mychoice")

	label, ok := f.labelByID(2)
	if !ok || label != "two" {
		t.Errorf("labelByID(2) = %q, %v", label, ok)
	}
	if _, ok := f.labelByID(99); ok {
		t.Error("expected no label for unknown id")
	}

	id, ok := f.idByLabel("one")
	if !ok || id != 1 {
		t.Errorf("idByLabel(one) = %d, %v", id, ok)
	}
	if _, ok := f.idByLabel("seven"); ok {
		t.Error("expected no id for unknown label")
	}
}
