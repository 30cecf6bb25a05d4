package store

import (
	"context"
	"sort"
	"sync"

	"github.com/mindwell/mindgrid/pkg/mapdoc"
)

// MemoryStore implements DocumentStore in process memory. It backs the
// server when no external store is configured and keeps tests free of
// network setup. Documents are deep-copied on save and load so callers
// cannot mutate stored state through shared slices.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]mapdoc.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]mapdoc.Document)}
}

// Save stores a copy of the document under name.
func (s *MemoryStore) Save(ctx context.Context, name string, doc mapdoc.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = copyDocument(doc)
	return nil
}

// Load retrieves a copy of the document stored under name.
func (s *MemoryStore) Load(ctx context.Context, name string) (mapdoc.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[name]
	if !ok {
		return mapdoc.Document{}, ErrNotFound
	}
	return copyDocument(doc), nil
}

// Delete removes the document. Deleting a missing name is not an error.
func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

// List returns stored document names in sorted order.
func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}

// Close does nothing for the memory store.
func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func copyDocument(doc mapdoc.Document) mapdoc.Document {
	out := mapdoc.Document{
		Root:  doc.Root,
		Nodes: make([]mapdoc.Node, len(doc.Nodes)),
	}
	copy(out.Nodes, doc.Nodes)
	for i, n := range doc.Nodes {
		if n.Children != nil {
			out.Nodes[i].Children = append([]string(nil), n.Children...)
		}
		if n.Position != nil {
			pos := *n.Position
			out.Nodes[i].Position = &pos
		}
	}
	return out
}

// Ensure MemoryStore implements DocumentStore.
var _ DocumentStore = (*MemoryStore)(nil)
