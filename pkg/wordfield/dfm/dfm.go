// Package dfm builds and manipulates sparse document-feature matrices.
// A matrix maps (row, feature) to a nonnegative count, where a row is a
// document or a group of documents. Row and feature order is first-seen
// order, which keeps every derived artifact deterministic for a given
// input order.
package dfm

import "sort"

// Builder accumulates token counts into rows before freezing them into
// a Matrix. Adding tokens for a known row label folds into that row, so
// the builder serves both per-document and per-group construction.
type Builder struct {
	m *Matrix
}

// NewBuilder creates an empty builder.
func NewBuilder() *Builder {
	return &Builder{m: newMatrix()}
}

// Add counts the tokens into the named row. The row is created on
// first sight even when tokens is empty, so an empty document still
// holds an all-zero row.
func (b *Builder) Add(row string, tokens []string) {
	ri := b.m.ensureRow(row)
	for _, tok := range tokens {
		fi := b.m.ensureFeature(tok)
		b.m.cells[ri][fi]++
	}
}

// Build returns the accumulated matrix. The builder must not be used
// afterwards.
func (b *Builder) Build() *Matrix {
	m := b.m
	b.m = nil
	return m
}

// Matrix is a sparse nonnegative count matrix over rows and features.
type Matrix struct {
	rows      []string
	rowIndex  map[string]int
	features  []string
	featIndex map[string]int
	cells     []map[int]int64
}

func newMatrix() *Matrix {
	return &Matrix{
		rowIndex:  make(map[string]int),
		featIndex: make(map[string]int),
	}
}

func (m *Matrix) ensureRow(label string) int {
	if i, ok := m.rowIndex[label]; ok {
		return i
	}
	i := len(m.rows)
	m.rowIndex[label] = i
	m.rows = append(m.rows, label)
	m.cells = append(m.cells, make(map[int]int64))
	return i
}

func (m *Matrix) ensureFeature(label string) int {
	if i, ok := m.featIndex[label]; ok {
		return i
	}
	i := len(m.features)
	m.featIndex[label] = i
	m.features = append(m.features, label)
	return i
}

// NRows returns the number of rows.
func (m *Matrix) NRows() int {
	return len(m.rows)
}

// NFeatures returns the number of distinct features.
func (m *Matrix) NFeatures() int {
	return len(m.features)
}

// Rows returns the row labels in matrix order.
func (m *Matrix) Rows() []string {
	out := make([]string, len(m.rows))
	copy(out, m.rows)
	return out
}

// Features returns the feature labels in matrix order.
func (m *Matrix) Features() []string {
	out := make([]string, len(m.features))
	copy(out, m.features)
	return out
}

// HasRow reports whether the row label exists.
func (m *Matrix) HasRow(label string) bool {
	_, ok := m.rowIndex[label]
	return ok
}

// Count returns the cell value for (row, feature), 0 when either label
// is unknown.
func (m *Matrix) Count(row, feature string) int64 {
	ri, ok := m.rowIndex[row]
	if !ok {
		return 0
	}
	fi, ok := m.featIndex[feature]
	if !ok {
		return 0
	}
	return m.cells[ri][fi]
}

// RowSum returns the total count in one row.
func (m *Matrix) RowSum(row string) int64 {
	ri, ok := m.rowIndex[row]
	if !ok {
		return 0
	}
	var sum int64
	for _, v := range m.cells[ri] {
		sum += v
	}
	return sum
}

// FeatureSum returns the total count of one feature across all rows.
func (m *Matrix) FeatureSum(feature string) int64 {
	fi, ok := m.featIndex[feature]
	if !ok {
		return 0
	}
	var sum int64
	for ri := range m.cells {
		sum += m.cells[ri][fi]
	}
	return sum
}

// DocFreq returns the number of rows with a nonzero count for the
// feature.
func (m *Matrix) DocFreq(feature string) int64 {
	fi, ok := m.featIndex[feature]
	if !ok {
		return 0
	}
	var df int64
	for ri := range m.cells {
		if m.cells[ri][fi] > 0 {
			df++
		}
	}
	return df
}

// Total returns the sum of every cell.
func (m *Matrix) Total() int64 {
	var sum int64
	for ri := range m.cells {
		for _, v := range m.cells[ri] {
			sum += v
		}
	}
	return sum
}

// Triple is one nonzero cell for sparse export.
type Triple struct {
	Row     string `json:"row"`
	Feature string `json:"feature"`
	Count   int64  `json:"count"`
}

// Triples returns the nonzero cells in row order, features in matrix
// order inside each row.
func (m *Matrix) Triples() []Triple {
	var out []Triple
	for ri, row := range m.rows {
		idx := make([]int, 0, len(m.cells[ri]))
		for fi, v := range m.cells[ri] {
			if v > 0 {
				idx = append(idx, fi)
			}
		}
		sort.Ints(idx)
		for _, fi := range idx {
			out = append(out, Triple{Row: row, Feature: m.features[fi], Count: m.cells[ri][fi]})
		}
	}
	return out
}

// Collapse returns a new matrix whose features are rewritten through
// mapper. Features for which mapper reports false are dropped; counts
// of features mapping to the same label are summed. Rows are preserved.
func (m *Matrix) Collapse(mapper func(feature string) (string, bool)) *Matrix {
	out := newMatrix()
	for _, row := range m.rows {
		out.ensureRow(row)
	}
	for ri := range m.cells {
		idx := make([]int, 0, len(m.cells[ri]))
		for fi := range m.cells[ri] {
			idx = append(idx, fi)
		}
		sort.Ints(idx)
		for _, fi := range idx {
			label, ok := mapper(m.features[fi])
			if !ok {
				continue
			}
			out.cells[ri][out.ensureFeature(label)] += m.cells[ri][fi]
		}
	}
	return out
}
