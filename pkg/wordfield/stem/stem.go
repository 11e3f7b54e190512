// Package stem reduces English tokens to root forms with a small
// deterministic suffix stripper. It is not a full Porter stemmer;
// the rule set covers plural, participle, and adverbial endings,
// which is enough to conflate the variants that matter for counting.
package stem

import (
	"strings"

	gocache "github.com/patrickmn/go-cache"

	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

// Stemmer applies suffix-stripping rules to tokens. Results are
// memoized, so repeated corpus runs pay the rule cost once per
// distinct word. Safe for concurrent use.
type Stemmer struct {
	separator     string
	stemCompounds bool
	memo          *gocache.Cache
}

// New creates a stemmer that leaves compound tokens (tokens containing
// the space separator) untouched.
func New() *Stemmer {
	return &Stemmer{
		separator: " ",
		memo:      gocache.New(gocache.NoExpiration, 0),
	}
}

// SetSeparator changes the compound separator used to recognize
// multi-word tokens.
func (s *Stemmer) SetSeparator(sep string) {
	if sep != "" {
		s.separator = sep
	}
}

// SetStemCompounds controls whether the constituent words of compound
// tokens are stemmed. Off keeps phrase tokens human-readable.
func (s *Stemmer) SetStemCompounds(on bool) {
	s.stemCompounds = on
}

// Stem returns the root form of one token.
func (s *Stemmer) Stem(word string) string {
	if word == "" {
		return word
	}

	if strings.Contains(word, s.separator) {
		if !s.stemCompounds {
			return word
		}
		parts := strings.Split(word, s.separator)
		for i, p := range parts {
			parts[i] = s.stemSimple(p)
		}
		return strings.Join(parts, s.separator)
	}

	return s.stemSimple(word)
}

// Apply stems every token of a sequence in place.
func (s *Stemmer) Apply(seq *tokenize.Sequence) *tokenize.Sequence {
	return seq.Map(s.Stem)
}

func (s *Stemmer) stemSimple(word string) string {
	if v, ok := s.memo.Get(word); ok {
		return v.(string)
	}
	stemmed := stemWord(word)
	s.memo.Set(word, stemmed, gocache.NoExpiration)
	return stemmed
}

// stemWord applies the rule list, first match wins.
func stemWord(word string) string {
	n := len(word)
	if n <= 3 {
		return word
	}

	switch {
	case strings.HasSuffix(word, "ies") && n > 4:
		// studies -> studi, lining up with the consonant-y rule
		return word[:n-3] + "i"

	case strings.HasSuffix(word, "sses"):
		return word[:n-2]

	case strings.HasSuffix(word, "ss"), strings.HasSuffix(word, "us"), strings.HasSuffix(word, "is"):
		// class, virus, basis: the final s is not a plural marker
		return word

	case strings.HasSuffix(word, "es") && n > 4 &&
		(word[n-3] == 'x' || word[n-3] == 'z' ||
			strings.HasSuffix(word, "ches") || strings.HasSuffix(word, "shes")):
		return word[:n-2]

	case strings.HasSuffix(word, "s"):
		return word[:n-1]

	case strings.HasSuffix(word, "ing") && n >= 5:
		stem := word[:n-3]
		if !hasVowel(stem) {
			return word
		}
		return undouble(stem)

	case strings.HasSuffix(word, "ed") && n >= 5:
		stem := word[:n-2]
		if !hasVowel(stem) {
			return word
		}
		return undouble(stem)

	case strings.HasSuffix(word, "ly") && n >= 5:
		return word[:n-2]

	case word[n-1] == 'y' && !isVowel(rune(word[n-2])):
		return word[:n-1] + "i"
	}

	return word
}

// undouble removes a trailing doubled consonant (running -> runn -> run).
// l, s, and z keep their doubles: fall, pass, buzz.
func undouble(stem string) string {
	n := len(stem)
	if n < 2 {
		return stem
	}
	last := stem[n-1]
	if last != stem[n-2] || isVowel(rune(last)) {
		return stem
	}
	if last == 'l' || last == 's' || last == 'z' {
		return stem
	}
	return stem[:n-1]
}

func hasVowel(s string) bool {
	for _, r := range s {
		if isVowel(r) || r == 'y' {
			return true
		}
	}
	return false
}

func isVowel(r rune) bool {
	switch r {
	case 'a', 'e', 'i', 'o', 'u':
		return true
	}
	return false
}
