// Package sqlite persists documents and analysis runs in a SQLite
// database via the modernc.org driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"time"

	_ "modernc.org/sqlite"

	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
	"github.com/parchlabs/wordfield/pkg/wordfield/store"
)

// sqliteStore implements the Store interface using SQLite
type sqliteStore struct {
	db *sql.DB
}

// Open opens a SQLite database with WAL mode enabled and creates the
// schema when missing.
func Open(ctx context.Context, path string) (store.Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable WAL mode for better concurrency
	if _, err := db.ExecContext(ctx, "PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %v", internalerr.ErrStoreUnavailable, err)
	}

	// Enable foreign keys
	if _, err := db.ExecContext(ctx, "PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, err
	}

	if err := initSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db: db}, nil
}

// Close closes the database connection
func (s *sqliteStore) Close() error {
	return s.db.Close()
}

// initSchema creates tables if they don't exist
func initSchema(ctx context.Context, db *sql.DB) error {
	schema := `
CREATE TABLE IF NOT EXISTS docs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	doc_id TEXT UNIQUE NOT NULL,
	text TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS doc_attrs (
	doc_id INTEGER NOT NULL,
	name TEXT NOT NULL,
	value TEXT NOT NULL,
	UNIQUE(doc_id, name),
	FOREIGN KEY(doc_id) REFERENCES docs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	created_at TEXT NOT NULL,
	params TEXT
);

CREATE TABLE IF NOT EXISTS dfm_cells (
	run_id TEXT NOT NULL,
	row_label TEXT NOT NULL,
	feature TEXT NOT NULL,
	count INTEGER NOT NULL,
	PRIMARY KEY(run_id, row_label, feature),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS freq_entries (
	run_id TEXT NOT NULL,
	grp TEXT NOT NULL,
	feature TEXT NOT NULL,
	count INTEGER NOT NULL,
	rank INTEGER NOT NULL,
	doc_freq INTEGER NOT NULL,
	PRIMARY KEY(run_id, grp, feature),
	FOREIGN KEY(run_id) REFERENCES runs(id) ON DELETE CASCADE
);
`

	_, err := db.ExecContext(ctx, schema)
	return err
}

// UpsertDoc inserts or updates a document keyed by its ID.
func (s *sqliteStore) UpsertDoc(ctx context.Context, d corpus.Document) error {
	if d.ID == "" {
		return fmt.Errorf("document id is empty: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const stmt = `
INSERT INTO docs (doc_id, text)
VALUES (?, ?)
ON CONFLICT(doc_id) DO UPDATE SET text=excluded.text
RETURNING id;
`

	var rowID int64
	if err := tx.QueryRowContext(ctx, stmt, d.ID, d.Text).Scan(&rowID); err != nil {
		return err
	}

	if err := replaceDocAttrs(ctx, tx, rowID, d.Attrs); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceDocAttrs(ctx context.Context, tx *sql.Tx, rowID int64, attrs map[string]string) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM doc_attrs WHERE doc_id=?`, rowID); err != nil {
		return err
	}
	if len(attrs) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO doc_attrs (doc_id, name, value) VALUES (?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()

	names := make([]string, 0, len(attrs))
	for name := range attrs {
		if name == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if _, err := stmt.ExecContext(ctx, rowID, name, attrs[name]); err != nil {
			return err
		}
	}
	return nil
}

// GetDoc retrieves a document by ID.
func (s *sqliteStore) GetDoc(ctx context.Context, id string) (corpus.Document, error) {
	var (
		rowID int64
		doc   corpus.Document
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, doc_id, text FROM docs WHERE doc_id=?`, id).
		Scan(&rowID, &doc.ID, &doc.Text)
	if err == sql.ErrNoRows {
		return corpus.Document{}, fmt.Errorf("document %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return corpus.Document{}, err
	}

	doc.Attrs, err = s.loadAttrs(ctx, rowID)
	if err != nil {
		return corpus.Document{}, err
	}
	return doc, nil
}

// AllDocs retrieves every document in insertion order.
func (s *sqliteStore) AllDocs(ctx context.Context) ([]corpus.Document, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, doc_id, text FROM docs ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var (
		docs   []corpus.Document
		rowIDs []int64
	)
	for rows.Next() {
		var (
			rowID int64
			doc   corpus.Document
		)
		if err := rows.Scan(&rowID, &doc.ID, &doc.Text); err != nil {
			return nil, err
		}
		docs = append(docs, doc)
		rowIDs = append(rowIDs, rowID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i, rowID := range rowIDs {
		attrs, err := s.loadAttrs(ctx, rowID)
		if err != nil {
			return nil, err
		}
		docs[i].Attrs = attrs
	}
	return docs, nil
}

// CountDocs returns the number of stored documents.
func (s *sqliteStore) CountDocs(ctx context.Context) (int64, error) {
	var total int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs`).Scan(&total)
	return total, err
}

// SaveRun persists a run and its artifacts in a single transaction.
func (s *sqliteStore) SaveRun(ctx context.Context, r store.Run) error {
	if r.ID == "" {
		return fmt.Errorf("run id is empty: %w", internalerr.ErrInvalidInput)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	created := r.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}

	if _, err := tx.ExecContext(ctx, `
INSERT INTO runs (id, created_at, params) VALUES (?, ?, ?)
ON CONFLICT(id) DO UPDATE SET created_at=excluded.created_at, params=excluded.params;
`, r.ID, created.UTC().Format(time.RFC3339), r.Params); err != nil {
		return err
	}

	if err := replaceCells(ctx, tx, r.ID, r.Cells); err != nil {
		return err
	}
	if err := replaceEntries(ctx, tx, r.ID, r.Entries); err != nil {
		return err
	}

	return tx.Commit()
}

func replaceCells(ctx context.Context, tx *sql.Tx, runID string, cells []dfm.Triple) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM dfm_cells WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(cells) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO dfm_cells (run_id, row_label, feature, count) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, c := range cells {
		if _, err := stmt.ExecContext(ctx, runID, c.Row, c.Feature, c.Count); err != nil {
			return err
		}
	}
	return nil
}

func replaceEntries(ctx context.Context, tx *sql.Tx, runID string, entries []freq.Entry) error {
	if _, err := tx.ExecContext(ctx, `DELETE FROM freq_entries WHERE run_id=?`, runID); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}
	stmt, err := tx.PrepareContext(ctx, `INSERT INTO freq_entries (run_id, grp, feature, count, rank, doc_freq) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, e := range entries {
		if _, err := stmt.ExecContext(ctx, runID, e.Group, e.Feature, e.Count, e.Rank, e.DocFreq); err != nil {
			return err
		}
	}
	return nil
}

// GetRun retrieves a run with its artifacts. Cells come back sorted by
// (row, feature) and entries by (group, rank).
func (s *sqliteStore) GetRun(ctx context.Context, id string) (store.Run, error) {
	var (
		r       store.Run
		created string
	)
	err := s.db.QueryRowContext(ctx, `SELECT id, created_at, params FROM runs WHERE id=?`, id).
		Scan(&r.ID, &created, &r.Params)
	if err == sql.ErrNoRows {
		return store.Run{}, fmt.Errorf("run %q: %w", id, internalerr.ErrNotFound)
	}
	if err != nil {
		return store.Run{}, err
	}

	if created != "" {
		if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
			r.CreatedAt = parsed
		}
	}

	if r.Cells, err = s.loadCells(ctx, id); err != nil {
		return store.Run{}, err
	}
	if r.Entries, err = s.loadEntries(ctx, id); err != nil {
		return store.Run{}, err
	}
	return r, nil
}

// ListRuns returns run summaries, newest first. Run IDs are ULIDs, so
// lexicographic order matches creation order.
func (s *sqliteStore) ListRuns(ctx context.Context, limit int) ([]store.RunSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
SELECT r.id, r.created_at,
	(SELECT COUNT(*) FROM dfm_cells c WHERE c.run_id = r.id),
	(SELECT COUNT(*) FROM freq_entries f WHERE f.run_id = r.id)
FROM runs r
ORDER BY r.id DESC
LIMIT ?;
`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var summaries []store.RunSummary
	for rows.Next() {
		var (
			sum     store.RunSummary
			created string
		)
		if err := rows.Scan(&sum.ID, &created, &sum.NCells, &sum.NEntries); err != nil {
			return nil, err
		}
		if created != "" {
			if parsed, perr := time.Parse(time.RFC3339, created); perr == nil {
				sum.CreatedAt = parsed
			}
		}
		summaries = append(summaries, sum)
	}
	return summaries, rows.Err()
}

func (s *sqliteStore) loadAttrs(ctx context.Context, rowID int64) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, value FROM doc_attrs WHERE doc_id=?`, rowID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attrs map[string]string
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, err
		}
		if attrs == nil {
			attrs = make(map[string]string)
		}
		attrs[name] = value
	}
	return attrs, rows.Err()
}

func (s *sqliteStore) loadCells(ctx context.Context, runID string) ([]dfm.Triple, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT row_label, feature, count
FROM dfm_cells
WHERE run_id=?
ORDER BY row_label, feature;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cells []dfm.Triple
	for rows.Next() {
		var t dfm.Triple
		if err := rows.Scan(&t.Row, &t.Feature, &t.Count); err != nil {
			return nil, err
		}
		cells = append(cells, t)
	}
	return cells, rows.Err()
}

func (s *sqliteStore) loadEntries(ctx context.Context, runID string) ([]freq.Entry, error) {
	rows, err := s.db.QueryContext(ctx, `
SELECT grp, feature, count, rank, doc_freq
FROM freq_entries
WHERE run_id=?
ORDER BY grp, rank;
`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []freq.Entry
	for rows.Next() {
		var e freq.Entry
		if err := rows.Scan(&e.Group, &e.Feature, &e.Count, &e.Rank, &e.DocFreq); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
