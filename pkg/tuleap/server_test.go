package tuleap

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const testAccessKey = "tlp-k1-test"

// trackerService is a minimal in-memory rendition of the REST API, enough to
// drive the whole client stack through a real HTTP round trip.
type trackerService struct {
	mu        sync.Mutex
	nextID    int
	artifacts map[int]map[string]any
}

func newTrackerService() *trackerService {
	return &trackerService{nextID: 5000, artifacts: make(map[int]map[string]any)}
}

func (s *trackerService) router(t *testing.T) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if req.Header.Get("X-Auth-AccessKey") != testAccessKey {
				http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
				return
			}
			next.ServeHTTP(w, req)
		})
	})

	r.Get("/trackers/{trackerID}", func(w http.ResponseWriter, req *http.Request) {
		if chi.URLParam(req, "trackerID") != "1041" {
			http.NotFound(w, req)
			return
		}
		w.Write(trackerBody(t))
	})

	r.Get("/trackers/{trackerID}/artifacts", func(w http.ResponseWriter, req *http.Request) {
		offset, _ := strconv.Atoi(req.URL.Query().Get("offset"))
		s.mu.Lock()
		ids := make([]int, 0, len(s.artifacts))
		for id := range s.artifacts {
			ids = append(ids, id)
		}
		s.mu.Unlock()
		if offset >= len(ids) {
			w.Write([]byte(`[]`))
			return
		}
		page := make([]map[string]int, 0, len(ids))
		for _, id := range ids[offset:] {
			page = append(page, map[string]int{"id": id})
		}
		json.NewEncoder(w).Encode(page)
	})

	r.Get("/artifacts/{artifactID}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "artifactID"))
		s.mu.Lock()
		stored, ok := s.artifacts[id]
		s.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		fragments := []any{}
		for _, fragment := range stored {
			fragments = append(fragments, fragment)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"id":      id,
			"xref":    fmt.Sprintf("ticket #%d", id),
			"tracker": map[string]any{"id": 1041, "label": "Tickets"},
			"values":  fragments,
		})
	})

	r.Post("/artifacts", func(w http.ResponseWriter, req *http.Request) {
		var body struct {
			Tracker struct {
				ID int `json:"id"`
			} `json:"tracker"`
			Values []json.RawMessage `json:"values"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil || body.Tracker.ID != 1041 {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.nextID++
		id := s.nextID
		s.artifacts[id] = writeToReadShape(body.Values)
		s.mu.Unlock()
		json.NewEncoder(w).Encode(map[string]int{"id": id})
	})

	r.Put("/artifacts/{artifactID}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "artifactID"))
		var body struct {
			Values []json.RawMessage `json:"values"`
		}
		if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
			http.Error(w, `{"error":"bad request"}`, http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		stored, ok := s.artifacts[id]
		if ok {
			for key, fragment := range writeToReadShape(body.Values) {
				stored[key] = fragment
			}
		}
		s.mu.Unlock()
		if !ok {
			http.Error(w, `{"error":"not found"}`, http.StatusNotFound)
			return
		}
		w.Write([]byte(`{}`))
	})

	r.Delete("/artifacts/{artifactID}", func(w http.ResponseWriter, req *http.Request) {
		id, _ := strconv.Atoi(chi.URLParam(req, "artifactID"))
		s.mu.Lock()
		delete(s.artifacts, id)
		s.mu.Unlock()
		w.WriteHeader(http.StatusOK)
	})

	return r
}

// writeToReadShape converts write fragments into the shapes the read side
// reports, keyed by field id, using the shared test schema for choice fields.
func writeToReadShape(fragments []json.RawMessage) map[string]any {
	structure := testStructure()
	out := make(map[string]any, len(fragments))
	for _, raw := range fragments {
		var fragment struct {
			FieldID      int             `json:"field_id"`
			Value        json.RawMessage `json:"value"`
			BindValueIDs []int           `json:"bind_value_ids"`
			Links        []struct {
				ID int `json:"id"`
			} `json:"links"`
		}
		if err := json.Unmarshal(raw, &fragment); err != nil {
			continue
		}
		key := strconv.Itoa(fragment.FieldID)
		switch {
		case fragment.BindValueIDs != nil:
			values := []map[string]any{}
			for i := range structure.Fields {
				field := &structure.Fields[i]
				if field.ID != fragment.FieldID {
					continue
				}
				for _, id := range fragment.BindValueIDs {
					if label, ok := field.labelByID(id); ok {
						values = append(values, map[string]any{"id": id, "label": label})
					}
				}
			}
			out[key] = map[string]any{"field_id": fragment.FieldID, "values": values}
		case fragment.Links != nil:
			out[key] = map[string]any{"field_id": fragment.FieldID, "links": fragment.Links}
		default:
			out[key] = map[string]any{"field_id": fragment.FieldID, "value": fragment.Value}
		}
	}
	return out
}

func TestHTTPConnectionAgainstService(t *testing.T) {
	service := newTrackerService()
	srv := httptest.NewServer(service.router(t))
	defer srv.Close()

	conn := NewConnection(srv.URL, testAccessKey)
	client := NewClient(conn)
	ctx := context.Background()

	created, err := client.CreateArtifact(ctx, 1041, map[string]any{
		"summary":  "end to end",
		"myint":    12,
		"mychoice": "two",
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	artifact, err := client.Artifact(ctx, created.ID)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := artifact.FieldText("summary"); got != "end to end" {
		t.Errorf("expected summary round trip, got %q", got)
	}
	if v, _ := artifact.FieldValue("myint"); v.Int != 12 {
		t.Errorf("expected myint 12, got %+v", v)
	}
	if got := artifact.FieldText("mychoice"); got != "two" {
		t.Errorf("expected choice label round trip, got %q", got)
	}

	if err := client.UpdateField(ctx, created.ID, 1041, "summary", "revised"); err != nil {
		t.Fatalf("update: %v", err)
	}
	artifact, err = client.Artifact(ctx, created.ID)
	if err != nil {
		t.Fatalf("read after update: %v", err)
	}
	if got := artifact.FieldText("summary"); got != "revised" {
		t.Errorf("expected updated summary, got %q", got)
	}

	tracker, err := client.Tracker(ctx, 1041)
	if err != nil {
		t.Fatalf("tracker: %v", err)
	}
	if len(tracker.ArtifactIDs) != 1 || tracker.ArtifactIDs[0] != created.ID {
		t.Errorf("unexpected listing: %v", tracker.ArtifactIDs)
	}

	if err := client.DeleteArtifact(ctx, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := client.Artifact(ctx, created.ID); err == nil {
		t.Error("expected read of deleted artifact to fail")
	}
}

func TestHTTPConnectionRejectsBadKey(t *testing.T) {
	service := newTrackerService()
	srv := httptest.NewServer(service.router(t))
	defer srv.Close()

	conn := NewConnection(srv.URL, "wrong-key")
	_, err := conn.Get(context.Background(), "trackers/1041")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", statusErr.Code)
	}
}

func TestHTTPConnectionSurfacesNotFound(t *testing.T) {
	service := newTrackerService()
	srv := httptest.NewServer(service.router(t))
	defer srv.Close()

	conn := NewConnection(srv.URL, testAccessKey)
	_, err := conn.Get(context.Background(), "artifacts/99999")

	var statusErr *StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected StatusError, got %v", err)
	}
	if statusErr.Code != http.StatusNotFound {
		t.Errorf("expected 404, got %d", statusErr.Code)
	}
}
