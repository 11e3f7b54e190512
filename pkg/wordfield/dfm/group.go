package dfm

// Group returns a new matrix with rows merged by label. Each original
// row maps to labels[row]; rows missing from labels fall into the ""
// group. Counts of merged rows are summed and feature columns are the
// union, in the original feature order. Group rows appear in order of
// first appearance among the original rows. The receiver is left
// untouched.
func (m *Matrix) Group(labels map[string]string) *Matrix {
	out := newMatrix()
	// Feature space is unchanged by grouping
	for _, feature := range m.features {
		out.ensureFeature(feature)
	}
	for ri, row := range m.rows {
		gi := out.ensureRow(labels[row])
		for fi, v := range m.cells[ri] {
			if v == 0 {
				continue
			}
			out.cells[gi][fi] += v
		}
	}
	return out
}
