// Package store persists named map documents in external backends.
// Two implementations exist: Redis (fast snapshot storage with optional
// TTL, suited to live editing sessions) and MongoDB (durable named
// documents). Both speak the mapdoc wire format so anything they hold can
// be fed straight back into the layout pipeline.
package store

import (
	"context"
	"errors"

	"github.com/mindwell/mindgrid/pkg/mapdoc"
)

// ErrNotFound is returned by Load when no document exists under the
// requested name.
var ErrNotFound = errors.New("document not found")

// DocumentStore saves and loads named map documents.
type DocumentStore interface {
	// Save stores the document under name, replacing any previous version.
	Save(ctx context.Context, name string, doc mapdoc.Document) error

	// Load retrieves the document stored under name.
	// Returns ErrNotFound when the name is unknown.
	Load(ctx context.Context, name string) (mapdoc.Document, error)

	// Delete removes the document. Deleting a missing name is not an error.
	Delete(ctx context.Context, name string) error

	// List returns the names of all stored documents.
	List(ctx context.Context) ([]string, error)

	// Close releases the backend connection.
	Close(ctx context.Context) error
}
