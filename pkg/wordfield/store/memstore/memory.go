// Package memstore is an in-memory implementation of store.Store for
// tests and small pipelines.
package memstore

import (
	"context"
	"fmt"
	"sync"

	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
	"github.com/parchlabs/wordfield/pkg/wordfield/store"
)

// Store keeps documents and runs in maps guarded by a RWMutex.
type Store struct {
	mu       sync.RWMutex
	docs     map[string]corpus.Document
	docOrder []string
	runs     map[string]store.Run
	runOrder []string
}

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		docs: make(map[string]corpus.Document),
		runs: make(map[string]store.Run),
	}
}

// Close implements store.Store.
func (s *Store) Close() error { return nil }

// UpsertDoc inserts or replaces a document keyed by its ID.
func (s *Store) UpsertDoc(ctx context.Context, d corpus.Document) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		return fmt.Errorf("document id is empty: %w", internalerr.ErrInvalidInput)
	}
	if _, ok := s.docs[d.ID]; !ok {
		s.docOrder = append(s.docOrder, d.ID)
	}
	s.docs[d.ID] = copyDoc(d)
	return nil
}

// GetDoc returns a document by ID.
func (s *Store) GetDoc(ctx context.Context, id string) (corpus.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.docs[id]; ok {
		return copyDoc(d), nil
	}
	return corpus.Document{}, fmt.Errorf("document %q: %w", id, internalerr.ErrNotFound)
}

// AllDocs returns every document in insertion order.
func (s *Store) AllDocs(ctx context.Context) ([]corpus.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]corpus.Document, 0, len(s.docOrder))
	for _, id := range s.docOrder {
		out = append(out, copyDoc(s.docs[id]))
	}
	return out, nil
}

// CountDocs returns the number of stored documents.
func (s *Store) CountDocs(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.docs)), nil
}

// SaveRun stores a run, replacing any run with the same ID.
func (s *Store) SaveRun(ctx context.Context, r store.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		return fmt.Errorf("run id is empty: %w", internalerr.ErrInvalidInput)
	}
	if _, ok := s.runs[r.ID]; !ok {
		s.runOrder = append(s.runOrder, r.ID)
	}
	s.runs[r.ID] = copyRun(r)
	return nil
}

// GetRun returns a run with its artifacts.
func (s *Store) GetRun(ctx context.Context, id string) (store.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.runs[id]; ok {
		return copyRun(r), nil
	}
	return store.Run{}, fmt.Errorf("run %q: %w", id, internalerr.ErrNotFound)
}

// ListRuns returns run summaries, newest first.
func (s *Store) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 20
	}

	var summaries []store.RunSummary
	for i := len(s.runOrder) - 1; i >= 0 && len(summaries) < limit; i-- {
		r := s.runs[s.runOrder[i]]
		summaries = append(summaries, store.RunSummary{
			ID:        r.ID,
			CreatedAt: r.CreatedAt,
			NCells:    int64(len(r.Cells)),
			NEntries:  int64(len(r.Entries)),
		})
	}
	return summaries, nil
}

func copyDoc(d corpus.Document) corpus.Document {
	out := corpus.Document{ID: d.ID, Text: d.Text}
	if d.Attrs != nil {
		out.Attrs = make(map[string]string, len(d.Attrs))
		for k, v := range d.Attrs {
			out.Attrs[k] = v
		}
	}
	return out
}

func copyRun(r store.Run) store.Run {
	out := store.Run{ID: r.ID, CreatedAt: r.CreatedAt, Params: r.Params}
	if r.Cells != nil {
		out.Cells = make([]dfm.Triple, len(r.Cells))
		copy(out.Cells, r.Cells)
	}
	if r.Entries != nil {
		out.Entries = make([]freq.Entry, len(r.Entries))
		copy(out.Entries, r.Entries)
	}
	return out
}
