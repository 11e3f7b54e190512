package colloc

import (
	"strings"

	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

// Counter accumulates n-gram and token counts across a collection of
// token sequences. Grams are enumerated inside adjacency segments only,
// so a removed stopword never glues two words into a phrase.
type Counter struct {
	minN, maxN  int
	totalTokens int64
	tokenCounts map[string]int64
	grams       map[string]*gramStat
}

type gramStat struct {
	tokens  []string
	count   int64
	docs    int64
	lastDoc string
}

// NewCounter creates a counter for gram lengths minN..maxN.
// Out-of-range values fall back to the 2..3 window.
func NewCounter(minN, maxN int) *Counter {
	if minN < 2 {
		minN = 2
	}
	if maxN < minN {
		maxN = minN
	}
	return &Counter{
		minN:        minN,
		maxN:        maxN,
		tokenCounts: make(map[string]int64),
		grams:       make(map[string]*gramStat),
	}
}

// AddSequence folds one document's tokens into the counts. Sequences
// are expected one per document; document frequency relies on that.
func (c *Counter) AddSequence(seq *tokenize.Sequence) {
	for _, segment := range seq.Segments {
		for _, tok := range segment {
			c.tokenCounts[tok]++
			c.totalTokens++
		}

		for n := c.minN; n <= c.maxN; n++ {
			if len(segment) < n {
				continue
			}
			for i := 0; i+n <= len(segment); i++ {
				c.addGram(segment[i:i+n], seq.DocID)
			}
		}
	}
}

func (c *Counter) addGram(window []string, docID string) {
	key := strings.Join(window, " ")
	stat, ok := c.grams[key]
	if !ok {
		tokens := make([]string, len(window))
		copy(tokens, window)
		stat = &gramStat{tokens: tokens}
		c.grams[key] = stat
	}
	stat.count++
	if stat.lastDoc != docID || stat.docs == 0 {
		stat.docs++
		stat.lastDoc = docID
	}
}

// TotalTokens returns the number of token instances counted.
func (c *Counter) TotalTokens() int64 {
	return c.totalTokens
}

// TokenCount returns the occurrence count for a single token.
func (c *Counter) TokenCount(tok string) int64 {
	return c.tokenCounts[tok]
}

// GramCount returns the occurrence count for an exact token window.
func (c *Counter) GramCount(tokens ...string) int64 {
	if stat, ok := c.grams[strings.Join(tokens, " ")]; ok {
		return stat.count
	}
	return 0
}

// UniqueGrams returns the number of distinct grams seen.
func (c *Counter) UniqueGrams() int {
	return len(c.grams)
}
