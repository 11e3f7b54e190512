// Package store defines persistence for corpus documents and analysis
// runs. Implementations live in the memstore and sqlite subpackages.
package store

import (
	"context"
	"time"

	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
)

// Run is a persisted analysis run: its identifier, the parameters it
// was produced with (JSON-encoded), and the artifacts it produced.
type Run struct {
	ID        string
	CreatedAt time.Time
	Params    string
	Cells     []dfm.Triple
	Entries   []freq.Entry
}

// RunSummary describes a stored run without loading its artifacts.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	NCells    int64
	NEntries  int64
}

// Store persists corpus documents and analysis runs.
type Store interface {
	// UpsertDoc inserts or replaces a document keyed by its ID.
	UpsertDoc(ctx context.Context, d corpus.Document) error

	// GetDoc returns the document with the given ID. Missing documents
	// report internalerr.ErrNotFound.
	GetDoc(ctx context.Context, id string) (corpus.Document, error)

	// AllDocs returns every stored document in insertion order.
	AllDocs(ctx context.Context) ([]corpus.Document, error)

	// CountDocs returns the number of stored documents.
	CountDocs(ctx context.Context) (int64, error)

	// SaveRun persists a run and its artifacts, replacing any run with
	// the same ID.
	SaveRun(ctx context.Context, r Run) error

	// GetRun returns a run with its artifacts. Missing runs report
	// internalerr.ErrNotFound.
	GetRun(ctx context.Context, id string) (Run, error)

	// ListRuns returns summaries of the most recent runs, newest first.
	// A limit <= 0 defaults to 20.
	ListRuns(ctx context.Context, limit int) ([]RunSummary, error)

	Close() error
}
