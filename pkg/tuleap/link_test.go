package tuleap

import "testing"

func TestArtifactLinkIDFromReference(t *testing.T) {
	link := ArtifactLink{ArtifactID: 999, Reference: "story#123"}
	if got := link.ID(); got != 123 {
		t.Errorf("expected reference to win over direct id, got %d", got)
	}
}

func TestArtifactLinkIDDirect(t *testing.T) {
	link := ArtifactLink{ArtifactID: 42}
	if got := link.ID(); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestArtifactLinkIDMalformedReference(t *testing.T) {
	cases := []struct {
		name      string
		reference string
	}{
		{"no separator", "story123"},
		{"trailing separator", "story#"},
		{"non-numeric id", "story#abc"},
		{"blank", "   "},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			link := ArtifactLink{ArtifactID: 7, Reference: tc.reference}
			if got := link.ID(); got != 7 {
				t.Errorf("expected fallback to direct id 7, got %d", got)
			}
		})
	}
}

func TestArtifactLinkString(t *testing.T) {
	link := ArtifactLink{Reference: "BUG#42"}
	if got := link.String(); got != "42" {
		t.Errorf("expected \"42\", got %q", got)
	}
}
