// Package store persists computed layout documents.
//
// This package defines the Store interface with implementations for
// different backends:
//   - memory: in-memory storage for development/testing
//   - mongo: MongoDB-backed storage for server deployments
//
// # Usage
//
// Create a store and save a pipeline result:
//
//	st := store.NewMemoryStore()
//	if err := st.Put(ctx, result.Document); err != nil {
//	    return err
//	}
//
//	doc, err := st.Get(ctx, id)
//	if errors.Is(err, store.ErrNotFound) {
//	    // unknown layout ID
//	}
package store

import (
	"context"
	"errors"

	"github.com/orreryworks/orrery/pkg/pipeline"
)

// Sentinel errors for store operations.
var (
	// ErrNotFound is returned when no document has the requested ID.
	ErrNotFound = errors.New("layout not found")

	// ErrInvalidDocument is returned when a document has no ID.
	ErrInvalidDocument = errors.New("document has no ID")
)

// Store persists layout documents by their ID.
type Store interface {
	// Put saves a document, replacing any existing document with the
	// same ID.
	Put(ctx context.Context, doc *pipeline.Document) error

	// Get retrieves a document by ID. Returns ErrNotFound when absent.
	Get(ctx context.Context, id string) (*pipeline.Document, error)

	// Delete removes a document. Deleting an absent ID is not an error.
	Delete(ctx context.Context, id string) error

	// List returns the IDs of documents laid out from the diagram with
	// the given content hash, newest first.
	List(ctx context.Context, diagramHash string) ([]string, error)

	// Close releases backend resources.
	Close(ctx context.Context) error
}
