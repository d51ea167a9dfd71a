package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/orreryworks/orrery/pkg/diagram"
	"github.com/orreryworks/orrery/pkg/pipeline"
	"github.com/orreryworks/orrery/pkg/store"
)

func testServer(t *testing.T) (*Server, *store.MemoryStore) {
	t.Helper()
	st := store.NewMemoryStore()
	runner := pipeline.NewRunner(nil, nil, log.New(io.Discard))
	return New(runner, st, log.New(io.Discard)), st
}

func testDiagramJSON(t *testing.T) diagram.DiagramJSON {
	t.Helper()
	d := diagram.New("system", diagram.KindComponent)
	s := d.AddScope("")
	for _, id := range []string{"web", "api"} {
		if _, err := s.AddNode(diagram.Node{ID: id}); err != nil {
			t.Fatalf("AddNode(%s): %v", id, err)
		}
	}
	if err := s.AddRelation(diagram.Relation{From: "web", To: "api"}); err != nil {
		t.Fatalf("AddRelation: %v", err)
	}
	return diagram.Export(d)
}

func postLayout(t *testing.T, h http.Handler, req layoutRequest) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(req)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", bytes.NewReader(body)))
	return rec
}

func TestHealthz(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
}

func TestLayoutEndpoint(t *testing.T) {
	s, _ := testServer(t)
	rec := postLayout(t, s.Router(), layoutRequest{Diagram: testDiagramJSON(t)})

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.Document == nil || resp.Document.Diagram != "system" {
		t.Fatalf("response document = %+v, want diagram system", resp.Document)
	}
	if len(resp.Document.Layers) != 1 {
		t.Errorf("layers = %d, want 1", len(resp.Document.Layers))
	}
	if resp.Stored {
		t.Error("document stored without persist")
	}
}

func TestLayoutPersistAndFetch(t *testing.T) {
	s, st := testServer(t)
	router := s.Router()

	rec := postLayout(t, router, layoutRequest{Diagram: testDiagramJSON(t), Persist: true})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body)
	}
	var resp layoutResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !resp.Stored {
		t.Fatal("persist requested but document not stored")
	}
	if _, err := st.Get(t.Context(), resp.Document.ID); err != nil {
		t.Fatalf("stored document not in store: %v", err)
	}

	get := httptest.NewRecorder()
	router.ServeHTTP(get, httptest.NewRequest(http.MethodGet, "/v1/layouts/"+resp.Document.ID, nil))
	if get.Code != http.StatusOK {
		t.Fatalf("GET status = %d, body %s", get.Code, get.Body)
	}
	var doc pipeline.Document
	if err := json.Unmarshal(get.Body.Bytes(), &doc); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	if doc.ID != resp.Document.ID {
		t.Errorf("fetched ID = %q, want %q", doc.ID, resp.Document.ID)
	}
}

func TestGetLayoutNotFound(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/layouts/unknown", nil))
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestLayoutRejectsBadBody(t *testing.T) {
	s, _ := testServer(t)
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/layout", bytes.NewReader([]byte("{"))))
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestLayoutRejectsUnknownAlgorithm(t *testing.T) {
	s, _ := testServer(t)
	rec := postLayout(t, s.Router(), layoutRequest{Diagram: testDiagramJSON(t), Algorithm: "radial"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, body %s; want 400", rec.Code, rec.Body)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode error response: %v", err)
	}
	if resp.Code == "" {
		t.Error("error response has no code")
	}
}
