package memstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
	"github.com/parchlabs/wordfield/pkg/wordfield/store"
)

func TestUpsertAndGetDoc(t *testing.T) {
	ctx := context.Background()
	s := New()
	defer s.Close()

	doc := corpus.Document{
		ID:    "d1",
		Text:  "bad bad hombre",
		Attrs: map[string]string{"party": "rep"},
	}
	if err := s.UpsertDoc(ctx, doc); err != nil {
		t.Fatalf("UpsertDoc: %v", err)
	}

	got, err := s.GetDoc(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if got.Text != doc.Text {
		t.Errorf("Text = %q, want %q", got.Text, doc.Text)
	}
	if got.Attr("party") != "rep" {
		t.Errorf("Attr(party) = %q, want rep", got.Attr("party"))
	}
}

func TestGetDocMissing(t *testing.T) {
	s := New()
	_, err := s.GetDoc(context.Background(), "nope")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpsertDocEmptyID(t *testing.T) {
	s := New()
	err := s.UpsertDoc(context.Background(), corpus.Document{Text: "x"})
	if !errors.Is(err, internalerr.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAllDocsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"c", "a", "b"} {
		if err := s.UpsertDoc(ctx, corpus.Document{ID: id, Text: id}); err != nil {
			t.Fatalf("UpsertDoc %s: %v", id, err)
		}
	}

	docs, err := s.AllDocs(ctx)
	if err != nil {
		t.Fatalf("AllDocs: %v", err)
	}
	if len(docs) != 3 {
		t.Fatalf("expected 3 docs, got %d", len(docs))
	}
	want := []string{"c", "a", "b"}
	for i, doc := range docs {
		if doc.ID != want[i] {
			t.Errorf("docs[%d].ID = %q, want %q", i, doc.ID, want[i])
		}
	}

	n, err := s.CountDocs(ctx)
	if err != nil {
		t.Fatalf("CountDocs: %v", err)
	}
	if n != 3 {
		t.Errorf("CountDocs = %d, want 3", n)
	}
}

func TestUpsertDocReplaces(t *testing.T) {
	ctx := context.Background()
	s := New()

	s.UpsertDoc(ctx, corpus.Document{ID: "d1", Text: "old"})
	s.UpsertDoc(ctx, corpus.Document{ID: "d1", Text: "new"})

	got, err := s.GetDoc(ctx, "d1")
	if err != nil {
		t.Fatalf("GetDoc: %v", err)
	}
	if got.Text != "new" {
		t.Errorf("Text = %q, want new", got.Text)
	}

	n, _ := s.CountDocs(ctx)
	if n != 1 {
		t.Errorf("CountDocs = %d, want 1 after replace", n)
	}
}

func TestGetDocReturnsCopy(t *testing.T) {
	ctx := context.Background()
	s := New()

	s.UpsertDoc(ctx, corpus.Document{ID: "d1", Text: "x", Attrs: map[string]string{"k": "v"}})

	got, _ := s.GetDoc(ctx, "d1")
	got.Attrs["k"] = "mutated"

	again, _ := s.GetDoc(ctx, "d1")
	if again.Attr("k") != "v" {
		t.Errorf("stored attrs mutated through returned copy: %q", again.Attr("k"))
	}
}

func TestSaveAndGetRun(t *testing.T) {
	ctx := context.Background()
	s := New()

	run := store.Run{
		ID:        "01ARZ3NDEKTSV4RRFFQ69G5FAV",
		CreatedAt: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
		Params:    `{"min_count":2}`,
		Cells: []dfm.Triple{
			{Row: "d1", Feature: "bad", Count: 2},
			{Row: "d2", Feature: "bad", Count: 1},
		},
		Entries: []freq.Entry{
			{Feature: "bad", Group: "all", Count: 3, Rank: 1, DocFreq: 2},
		},
	}
	if err := s.SaveRun(ctx, run); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, run.ID)
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if len(got.Cells) != 2 || len(got.Entries) != 1 {
		t.Fatalf("got %d cells, %d entries; want 2, 1", len(got.Cells), len(got.Entries))
	}
	if got.Cells[0].Feature != "bad" || got.Cells[0].Count != 2 {
		t.Errorf("Cells[0] = %+v", got.Cells[0])
	}
	if got.Params != run.Params {
		t.Errorf("Params = %q, want %q", got.Params, run.Params)
	}
}

func TestGetRunMissing(t *testing.T) {
	s := New()
	_, err := s.GetRun(context.Background(), "nope")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := New()

	for _, id := range []string{"run-1", "run-2", "run-3"} {
		if err := s.SaveRun(ctx, store.Run{ID: id}); err != nil {
			t.Fatalf("SaveRun %s: %v", id, err)
		}
	}

	runs, err := s.ListRuns(ctx, 2)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != "run-3" || runs[1].ID != "run-2" {
		t.Errorf("expected [run-3 run-2], got [%s %s]", runs[0].ID, runs[1].ID)
	}
}
