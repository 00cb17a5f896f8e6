package store

import (
	"context"
	"slices"
	"sync"

	apperrors "github.com/matzehuels/routeboard/pkg/errors"
	"github.com/matzehuels/routeboard/pkg/graph"
)

// MemoryStore keeps documents in process memory. Stored documents are
// copied on the way in and out, so callers may keep mutating their own.
type MemoryStore struct {
	mu   sync.RWMutex
	docs map[string]graph.Document
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string]graph.Document)}
}

func (s *MemoryStore) Get(ctx context.Context, name string) (*graph.Document, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[name]
	if !ok {
		return nil, notFound(name)
	}
	out := cloneDocument(doc)
	return &out, nil
}

func (s *MemoryStore) Put(ctx context.Context, name string, doc graph.Document) error {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[name] = cloneDocument(doc)
	return nil
}

func (s *MemoryStore) Delete(ctx context.Context, name string) error {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, name)
	return nil
}

func (s *MemoryStore) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	names := make([]string, 0, len(s.docs))
	for name := range s.docs {
		names = append(names, name)
	}
	slices.Sort(names)
	return names, nil
}

func (s *MemoryStore) Close() error { return nil }

func cloneDocument(d graph.Document) graph.Document {
	return graph.Document{
		Nodes: slices.Clone(d.Nodes),
		Edges: slices.Clone(d.Edges),
	}
}

var _ Store = (*MemoryStore)(nil)
