package tokenize

// Sequence is the ordered token output for one document. Tokens are
// grouped into segments: maximal runs of tokens that were adjacent in
// the source text with nothing removed between them. A removed token
// (stopword, number, URL) ends the current segment, so later stages
// never treat tokens separated by removed material as neighbors.
type Sequence struct {
	DocID    string
	Segments [][]string
}

// Tokens flattens the segments into a single slice in document order.
func (s *Sequence) Tokens() []string {
	n := 0
	for _, seg := range s.Segments {
		n += len(seg)
	}
	out := make([]string, 0, n)
	for _, seg := range s.Segments {
		out = append(out, seg...)
	}
	return out
}

// Count returns the total number of tokens across all segments.
func (s *Sequence) Count() int {
	n := 0
	for _, seg := range s.Segments {
		n += len(seg)
	}
	return n
}

// Empty reports whether the sequence holds no tokens.
func (s *Sequence) Empty() bool {
	return s.Count() == 0
}

// Map applies fn to every token in place and returns the sequence.
func (s *Sequence) Map(fn func(string) string) *Sequence {
	for _, seg := range s.Segments {
		for i, tok := range seg {
			seg[i] = fn(tok)
		}
	}
	return s
}
