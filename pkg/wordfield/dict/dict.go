// Package dict implements keyed dictionaries for token normalization
// and feature lookup. An entry maps a key to the word and phrase
// patterns that should count as that key.
package dict

import (
	"sort"
	"strings"

	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

// Entry is one dictionary key with its patterns. Patterns are single
// words or space-separated phrases.
type Entry struct {
	Key      string
	Patterns []string
}

// Dictionary resolves tokens and token spans to their keys.
type Dictionary struct {
	exact  map[string]string
	maxLen int
}

// New builds a dictionary. Patterns are matched case-insensitively;
// the key itself is always a pattern for its own entry.
func New(entries []Entry) *Dictionary {
	d := &Dictionary{
		exact:  make(map[string]string),
		maxLen: 1,
	}
	for _, e := range entries {
		key := strings.ToLower(strings.TrimSpace(e.Key))
		if key == "" {
			continue
		}
		d.addPattern(key, key)
		for _, p := range e.Patterns {
			d.addPattern(p, key)
		}
	}
	return d
}

func (d *Dictionary) addPattern(pattern, key string) {
	words := strings.Fields(strings.ToLower(pattern))
	if len(words) == 0 {
		return
	}
	d.exact[strings.Join(words, " ")] = key
	if len(words) > d.maxLen {
		d.maxLen = len(words)
	}
}

// Len returns the number of patterns.
func (d *Dictionary) Len() int {
	return len(d.exact)
}

// Keys returns the distinct keys, sorted.
func (d *Dictionary) Keys() []string {
	seen := make(map[string]struct{})
	for _, key := range d.exact {
		seen[key] = struct{}{}
	}
	keys := make([]string, 0, len(seen))
	for key := range seen {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Match resolves a single token (possibly a compound containing
// spaces) to its key.
func (d *Dictionary) Match(token string) (string, bool) {
	key, ok := d.exact[strings.ToLower(token)]
	return key, ok
}

// Normalize rewrites a sequence in place, replacing matched spans with
// their keys. Phrase patterns match greedily, longest first, and never
// cross segment boundaries; unmatched tokens pass through.
func (d *Dictionary) Normalize(seq *tokenize.Sequence) *tokenize.Sequence {
	if len(d.exact) == 0 {
		return seq
	}
	for i, segment := range seq.Segments {
		seq.Segments[i] = d.rewrite(segment)
	}
	return seq
}

func (d *Dictionary) rewrite(tokens []string) []string {
	result := make([]string, 0, len(tokens))
	i := 0

	for i < len(tokens) {
		span := d.maxLen
		if remaining := len(tokens) - i; span > remaining {
			span = remaining
		}

		matched, matchLen := "", 0
		for n := span; n >= 2; n-- {
			if key, ok := d.exact[strings.Join(tokens[i:i+n], " ")]; ok {
				matched, matchLen = key, n
				break
			}
		}

		if matchLen > 0 {
			result = append(result, matched)
			i += matchLen
			continue
		}

		if key, ok := d.exact[tokens[i]]; ok {
			result = append(result, key)
		} else {
			result = append(result, tokens[i])
		}
		i++
	}

	return result
}

// Lookup collapses a matrix's features into dictionary keys, summing
// the counts of features sharing a key. Features matching no pattern
// are dropped, which turns a word-level matrix into a key-level one.
func Lookup(m *dfm.Matrix, d *Dictionary) *dfm.Matrix {
	return m.Collapse(d.Match)
}
