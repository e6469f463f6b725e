package tuleap

import (
	"reflect"
	"strings"
	"testing"
)

const readResponse = `{
	"id": 4843,
	"xref": "ticket #4843",
	"tracker": {"id": 1041, "label": "Tickets"},
	"values": [
		{"field_id": 1, "value": 4843},
		{"field_id": 10, "value": 77},
		{"field_id": 15, "value": 0.5},
		{"field_id": 20, "values": [{"id": 1, "label": "one"}]},
		{"field_id": 30, "value": "string_value"},
		{"field_id": 40, "value": "<p>rich <b>body</b></p>"},
		{"field_id": 50, "value": "08/20/2023 16:37:19"},
		{"field_id": 60, "values": []},
		{"field_id": 70, "links": [{"id": 101}], "reverse_links": [{"id": 55}]},
		{"field_id": 90, "value": [{"id": 1, "description": "Step1", "expected_results": "Expected1", "rank": 1}]},
		{"field_id": 100, "value": "08/20/2023 16:37:19"},
		{"field_id": 110, "value": {"username": "nby77"}},
		{"field_id": 120, "value": "whatever"}
	]
}`

func TestArtifactPopulate(t *testing.T) {
	a := &Artifact{ID: 4843}
	if err := a.populate(testStructure(), []byte(readResponse)); err != nil {
		t.Fatalf("populate: %v", err)
	}

	if a.TrackerID != 1041 || a.TrackerName != "Tickets" {
		t.Errorf("unexpected tracker envelope: %d %q", a.TrackerID, a.TrackerName)
	}

	if v, _ := a.FieldValue("aid"); v.Int != 4843 {
		t.Errorf("expected aid 4843, got %+v", v)
	}
	if v, _ := a.FieldValue("xref"); v.Text != "ticket #4843" {
		t.Errorf("expected xref, got %+v", v)
	}
	if v, _ := a.FieldValue("myint"); v.Int != 77 {
		t.Errorf("expected 77, got %+v", v)
	}
	if v, _ := a.FieldValue("mychoice"); v.Text != "one" {
		t.Errorf("expected label one, got %+v", v)
	}
	if v, _ := a.FieldValue("body"); v.Text != "rich body" {
		t.Errorf("expected stripped body, got %+v", v)
	}
	if v, _ := a.FieldValue("colors"); v.Text != "null" {
		t.Errorf("expected empty multi choice sentinel, got %+v", v)
	}
	if v, _ := a.FieldValue("references"); len(v.Links) != 2 || !v.Links[1].Reverse {
		t.Errorf("unexpected links: %+v", v.Links)
	}
	if v, _ := a.FieldValue("submitted_by"); v.Text != "nby77" {
		t.Errorf("expected username, got %+v", v)
	}

	// Fields missing from the payload decode to null rather than vanishing.
	v, ok := a.FieldValue("severity")
	if !ok || !v.IsNull() {
		t.Errorf("expected null entry for absent field, got %+v (ok=%v)", v, ok)
	}

	// Unknown-kind fragments present in the payload are skipped entirely.
	if _, ok := a.FieldValue("mystery"); ok {
		t.Error("expected no entry for unknown-kind field")
	}
}

func TestArtifactPopulateIsIdempotent(t *testing.T) {
	structure := testStructure()

	first := &Artifact{ID: 4843}
	second := &Artifact{ID: 4843}
	if err := first.populate(structure, []byte(readResponse)); err != nil {
		t.Fatalf("populate first: %v", err)
	}
	if err := second.populate(structure, []byte(readResponse)); err != nil {
		t.Fatalf("populate second: %v", err)
	}

	if !reflect.DeepEqual(first.Values(), second.Values()) {
		t.Error("expected identical value maps from identical payloads")
	}
}

func TestArtifactPopulateReplacesValuesWholesale(t *testing.T) {
	structure := testStructure()
	a := &Artifact{ID: 4843}
	if err := a.populate(structure, []byte(readResponse)); err != nil {
		t.Fatalf("populate: %v", err)
	}

	// A second read with fewer fields must not leave stale entries behind.
	smaller := `{
		"id": 4843,
		"xref": "ticket #4843",
		"tracker": {"id": 1041, "label": "Tickets"},
		"values": [{"field_id": 30, "value": "updated"}]
	}`
	if err := a.populate(structure, []byte(smaller)); err != nil {
		t.Fatalf("repopulate: %v", err)
	}

	if v, _ := a.FieldValue("summary"); v.Text != "updated" {
		t.Errorf("expected updated summary, got %+v", v)
	}
	if v, _ := a.FieldValue("myint"); !v.IsNull() {
		t.Errorf("expected myint reset to null, got %+v", v)
	}
}

func TestArtifactFieldText(t *testing.T) {
	a := &Artifact{ID: 4843}
	if err := a.populate(testStructure(), []byte(readResponse)); err != nil {
		t.Fatalf("populate: %v", err)
	}

	if got := a.FieldText("myint"); got != "77" {
		t.Errorf("expected \"77\", got %q", got)
	}
	if got := a.FieldText("no_such_field"); got != "" {
		t.Errorf("expected empty string, got %q", got)
	}
}

func TestArtifactString(t *testing.T) {
	a := &Artifact{ID: 4843}
	if err := a.populate(testStructure(), []byte(readResponse)); err != nil {
		t.Fatalf("populate: %v", err)
	}

	dump := a.String()
	if !strings.HasPrefix(dump, "[aid] = 4843\n") {
		t.Errorf("expected aid first, got %q", dump)
	}
	if !strings.Contains(dump, "[summary] = string_value\n") {
		t.Errorf("missing summary line: %q", dump)
	}
	if !strings.Contains(dump, "[references] = 101;55\n") {
		t.Errorf("missing joined links line: %q", dump)
	}
}

func TestInvalidArtifactSentinel(t *testing.T) {
	if InvalidArtifact.ID != -1 {
		t.Errorf("expected sentinel id -1, got %d", InvalidArtifact.ID)
	}
}
