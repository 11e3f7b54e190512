package dfm

// DocFreqType selects how MinDocFreq is interpreted.
type DocFreqType string

const (
	// DocFreqCount treats MinDocFreq as an absolute number of rows.
	DocFreqCount DocFreqType = "count"

	// DocFreqProportion treats MinDocFreq as a fraction of rows in
	// (0,1]. A feature passes when docfreq >= fraction * nrows, which
	// is the ceiling threshold since docfreq is an integer.
	DocFreqProportion DocFreqType = "proportion"
)

// TrimOptions are the feature retention thresholds. Zero values pass
// everything.
type TrimOptions struct {
	MinTermFreq int64
	MinDocFreq  float64
	DocFreqType DocFreqType
}

// Trim returns a new matrix keeping only features whose total count
// and document frequency meet the thresholds. Rows are never dropped:
// a row whose features were all trimmed stays as an all-zero row. The
// receiver is left untouched.
func (m *Matrix) Trim(opts TrimOptions) *Matrix {
	docFreqMin := opts.MinDocFreq
	if opts.DocFreqType == DocFreqProportion {
		docFreqMin = opts.MinDocFreq * float64(len(m.rows))
	}

	keep := make(map[int]bool, len(m.features))
	for fi, feature := range m.features {
		if m.FeatureSum(feature) < opts.MinTermFreq {
			continue
		}
		if float64(m.DocFreq(feature)) < docFreqMin {
			continue
		}
		keep[fi] = true
	}

	out := newMatrix()
	for _, row := range m.rows {
		out.ensureRow(row)
	}
	// Preserve feature order among survivors
	for fi, feature := range m.features {
		if keep[fi] {
			out.ensureFeature(feature)
		}
	}
	for ri := range m.cells {
		for fi, v := range m.cells[ri] {
			if !keep[fi] || v == 0 {
				continue
			}
			out.cells[ri][out.featIndex[m.features[fi]]] = v
		}
	}
	return out
}
