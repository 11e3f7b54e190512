// Package report writes run artifacts to disk: frequency tables as
// JSON and CSV, matrix cells as CSV, and a run summary JSON. These are
// the files downstream renderers consume.
package report

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
)

// Summary is the top-level run record written next to the artifacts.
type Summary struct {
	RunID       string              `json:"run_id"`
	CreatedAt   time.Time           `json:"created_at"`
	Params      json.RawMessage     `json:"params,omitempty"`
	Docs        int                 `json:"docs"`
	Features    int                 `json:"features"`
	Skipped     []string            `json:"skipped,omitempty"`
	Warnings    []string            `json:"warnings,omitempty"`
	TopFeatures map[string][]string `json:"top_features,omitempty"`
}

// Writer writes artifacts into a directory, creating it when missing.
type Writer struct {
	Dir string
}

// WriteFrequencyJSON writes a frequency table as indented JSON.
func (w Writer) WriteFrequencyJSON(name string, entries []freq.Entry) error {
	if entries == nil {
		entries = []freq.Entry{}
	}
	return w.writeJSON(name, entries)
}

// WriteFrequencyCSV writes a frequency table as CSV with a header row.
func (w Writer) WriteFrequencyCSV(name string, entries []freq.Entry) error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	f, err := os.Create(w.path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"feature", "group", "count", "rank", "docfreq"}); err != nil {
		return err
	}
	for _, e := range entries {
		rec := []string{
			e.Feature,
			e.Group,
			strconv.FormatInt(e.Count, 10),
			strconv.FormatInt(e.Rank, 10),
			strconv.FormatInt(e.DocFreq, 10),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteCellsCSV writes nonzero matrix cells as CSV with a header row.
func (w Writer) WriteCellsCSV(name string, cells []dfm.Triple) error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	f, err := os.Create(w.path(name))
	if err != nil {
		return err
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"row", "feature", "count"}); err != nil {
		return err
	}
	for _, c := range cells {
		rec := []string{c.Row, c.Feature, strconv.FormatInt(c.Count, 10)}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return err
	}
	return f.Close()
}

// WriteSummary writes the run summary as summary.json.
func (w Writer) WriteSummary(sum Summary) error {
	return w.writeJSON("summary.json", sum)
}

// TopFeatures lists the best-ranked features per group for compact run
// summaries. Entries are expected rank-ordered within each group, the
// order freq.Table and freq.TableByGroup produce.
func TopFeatures(entries []freq.Entry, n int) map[string][]string {
	if n <= 0 || len(entries) == 0 {
		return nil
	}
	out := make(map[string][]string)
	for _, e := range entries {
		if e.Rank > int64(n) {
			continue
		}
		out[e.Group] = append(out[e.Group], e.Feature)
	}
	return out
}

func (w Writer) writeJSON(name string, v interface{}) error {
	if err := w.ensureDir(); err != nil {
		return err
	}
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	out = append(out, '\n')
	return os.WriteFile(w.path(name), out, 0o644)
}

func (w Writer) ensureDir() error {
	if w.Dir == "" {
		return nil
	}
	return os.MkdirAll(w.Dir, 0o755)
}

func (w Writer) path(name string) string {
	return filepath.Join(w.Dir, name)
}
