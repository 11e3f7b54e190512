package compound

import (
	"strings"

	"github.com/parchlabs/wordfield/pkg/wordfield/colloc"
	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

// Compounder rewrites token sequences by merging accepted collocation
// spans into single tokens. Matching is greedy longest-first at each
// position, so a length-3 phrase wins over its length-2 prefix.
type Compounder struct {
	phrases   map[string]struct{}
	maxLen    int
	separator string
}

// New builds a compounder from accepted candidates. An empty separator
// means a single space.
func New(candidates []colloc.Candidate, separator string) *Compounder {
	phrases := make([]string, 0, len(candidates))
	for _, cand := range candidates {
		phrases = append(phrases, cand.Phrase())
	}
	return FromPhrases(phrases, separator)
}

// FromPhrases builds a compounder from space-separated phrases, for
// callers with a fixed phrase list instead of detector output.
func FromPhrases(phrases []string, separator string) *Compounder {
	if separator == "" {
		separator = " "
	}
	c := &Compounder{
		phrases:   make(map[string]struct{}, len(phrases)),
		maxLen:    1,
		separator: separator,
	}
	for _, p := range phrases {
		words := strings.Fields(strings.ToLower(p))
		if len(words) < 2 {
			continue
		}
		c.phrases[strings.Join(words, " ")] = struct{}{}
		if len(words) > c.maxLen {
			c.maxLen = len(words)
		}
	}
	return c
}

// Len returns the number of phrases the compounder matches.
func (c *Compounder) Len() int {
	return len(c.phrases)
}

// Separator returns the join string used for compound tokens.
func (c *Compounder) Separator() string {
	return c.separator
}

// Apply rewrites every segment of the sequence in place. Matches never
// cross segment boundaries. Reapplying is a no-op: compound tokens are
// single tokens and multi-token windows containing them never form a
// known phrase again.
func (c *Compounder) Apply(seq *tokenize.Sequence) *tokenize.Sequence {
	if len(c.phrases) == 0 {
		return seq
	}
	for i, segment := range seq.Segments {
		seq.Segments[i] = c.rewrite(segment)
	}
	return seq
}

func (c *Compounder) rewrite(tokens []string) []string {
	result := make([]string, 0, len(tokens))
	i := 0

	for i < len(tokens) {
		span := c.maxLen
		if remaining := len(tokens) - i; span > remaining {
			span = remaining
		}

		matched := 0
		for n := span; n >= 2; n-- {
			if _, ok := c.phrases[strings.Join(tokens[i:i+n], " ")]; ok {
				matched = n
				break
			}
		}

		if matched > 0 {
			result = append(result, strings.Join(tokens[i:i+matched], c.separator))
			i += matched
			continue
		}

		result = append(result, tokens[i])
		i++
	}

	return result
}
