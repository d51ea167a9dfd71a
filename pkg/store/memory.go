package store

import (
	"context"
	"sort"
	"sync"

	"github.com/orreryworks/orrery/pkg/pipeline"
)

// MemoryStore keeps documents in process memory. Contents are lost on
// restart; use it for development and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]*pipeline.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]*pipeline.Document)}
}

// Put saves a document.
func (s *MemoryStore) Put(_ context.Context, doc *pipeline.Document) error {
	if doc.ID == "" {
		return ErrInvalidDocument
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
	return nil
}

// Get retrieves a document by ID.
func (s *MemoryStore) Get(_ context.Context, id string) (*pipeline.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	if !ok {
		return nil, ErrNotFound
	}
	return doc, nil
}

// Delete removes a document.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, id)
	return nil
}

// List returns IDs of documents for a diagram hash, newest first.
func (s *MemoryStore) List(_ context.Context, diagramHash string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []*pipeline.Document
	for _, doc := range s.docs {
		if doc.DiagramHash == diagramHash {
			matches = append(matches, doc)
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].CreatedAt.After(matches[j].CreatedAt)
	})

	ids := make([]string, len(matches))
	for i, doc := range matches {
		ids[i] = doc.ID
	}
	return ids, nil
}

// Close does nothing for the in-memory store.
func (s *MemoryStore) Close(context.Context) error {
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
