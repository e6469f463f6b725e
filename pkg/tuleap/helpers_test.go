package tuleap

import (
	"context"
	"fmt"
)

// fakeConnection is an in-memory Connection that serves canned responses
// and records every request it sees.
type fakeConnection struct {
	getBodies map[string][]byte
	getErrs   map[string]error

	gets    []string
	posts   []recordedRequest
	puts    []recordedRequest
	deletes []string

	postBody []byte
}

type recordedRequest struct {
	path string
	body []byte
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{
		getBodies: make(map[string][]byte),
		getErrs:   make(map[string]error),
	}
}

func (f *fakeConnection) Get(_ context.Context, path string) ([]byte, error) {
	f.gets = append(f.gets, path)
	if err, ok := f.getErrs[path]; ok {
		return nil, err
	}
	if body, ok := f.getBodies[path]; ok {
		return body, nil
	}
	return nil, fmt.Errorf("unexpected GET %s", path)
}

func (f *fakeConnection) Post(_ context.Context, path string, body []byte) ([]byte, error) {
	f.posts = append(f.posts, recordedRequest{path: path, body: body})
	if f.postBody != nil {
		return f.postBody, nil
	}
	return []byte(`{"id":1}`), nil
}

func (f *fakeConnection) Put(_ context.Context, path string, body []byte) ([]byte, error) {
	f.puts = append(f.puts, recordedRequest{path: path, body: body})
	return []byte(`{}`), nil
}

func (f *fakeConnection) Delete(_ context.Context, path string) error {
	f.deletes = append(f.deletes, path)
	return nil
}

// testStructure returns a schema covering every managed field kind.
func testStructure() *TrackerStructure {
	return &TrackerStructure{
		ID:       1041,
		ItemName: "ticket",
		Fields: []TrackerField{
			{ID: 1, Name: "aid", Label: "Artifact ID", Type: "aid"},
			{ID: 10, Name: "myint", Label: "My Int", Type: "int"},
			{ID: 15, Name: "ratio", Label: "Ratio", Type: "float"},
			{ID: 20, Name: "mychoice", Label: "My Choice", Type: "sb", Values: []EnumEntry{{ID: 1, Label: "one"}, {ID: 2, Label: "two"}}},
			{ID: 25, Name: "severity", Label: "Severity", Type: "rb", Values: []EnumEntry{{ID: 5, Label: "low"}, {ID: 6, Label: "high"}}},
			{ID: 30, Name: "summary", Label: "Summary", Type: "string"},
			{ID: 40, Name: "body", Label: "Body", Type: "text"},
			{ID: 50, Name: "due", Label: "Due", Type: "date"},
			{ID: 60, Name: "colors", Label: "Colors", Type: "msb", Values: []EnumEntry{{ID: 11, Label: "red"}, {ID: 12, Label: "green"}, {ID: 13, Label: "blue"}}},
			{ID: 70, Name: "references", Label: "References", Type: "art_link"},
			{ID: 80, Name: "crossrefs", Label: "Cross References", Type: "cross"},
			{ID: 90, Name: "steps", Label: "Steps", Type: "ttmstepdef"},
			{ID: 100, Name: "submitted_on", Label: "Submitted On", Type: "subon"},
			{ID: 110, Name: "submitted_by", Label: "Submitted By", Type: "subby"},
			{ID: 120, Name: "mystery", Label: "Mystery", Type: "bogus"},
		},
	}
}
