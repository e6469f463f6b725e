package tuleap

import (
	"strconv"
	"strings"
)

// ArtifactLink is a reference to another artifact, either by bare numeric id
// or by a cross-reference string of the form "name#id".
type ArtifactLink struct {
	// ArtifactID is the direct numeric id. It is only meaningful while
	// Reference is empty; a non-empty Reference always wins.
	ArtifactID int

	// Reference is a cross-reference such as "story#123".
	Reference string

	// URL is the browse URL the service reported for a cross-reference.
	URL string

	// Reverse marks links found in the reverse_links array of a read.
	Reverse bool
}

// ID returns the linked artifact id. When Reference is set, the integer
// after '#' is authoritative; otherwise the stored ArtifactID is returned.
func (l ArtifactLink) ID() int {
	if strings.TrimSpace(l.Reference) == "" {
		return l.ArtifactID
	}
	idx := strings.LastIndex(l.Reference, "#")
	if idx < 0 || idx == len(l.Reference)-1 {
		return l.ArtifactID
	}
	id, err := strconv.Atoi(l.Reference[idx+1:])
	if err != nil {
		return l.ArtifactID
	}
	return id
}

// String returns the linked id in decimal form.
func (l ArtifactLink) String() string {
	return strconv.Itoa(l.ID())
}
