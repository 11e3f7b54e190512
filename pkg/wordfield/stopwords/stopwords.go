package stopwords

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
)

//go:embed english.txt
var englishRaw string

// Set is a stopword membership list. Lookups are case-insensitive;
// words are stored lowercased.
type Set struct {
	words map[string]struct{}
}

// New creates a set from the given words.
func New(words []string) *Set {
	s := &Set{words: make(map[string]struct{}, len(words))}
	for _, w := range words {
		s.Add(w)
	}
	return s
}

// English returns the built-in English stopword list.
func English() *Set {
	return New(parseList(englishRaw))
}

// ForLanguage returns the built-in list for the given language code or
// name. Only English ships with the library.
func ForLanguage(lang string) (*Set, error) {
	switch strings.ToLower(strings.TrimSpace(lang)) {
	case "english", "en":
		return English(), nil
	case "none", "":
		return New(nil), nil
	}
	return nil, fmt.Errorf("%w: no built-in stopword list for %q", internalerr.ErrNotFound, lang)
}

// Contains reports whether word is in the set.
func (s *Set) Contains(word string) bool {
	_, ok := s.words[strings.ToLower(word)]
	return ok
}

// Add inserts a word.
func (s *Set) Add(word string) {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return
	}
	s.words[w] = struct{}{}
}

// Remove deletes a word.
func (s *Set) Remove(word string) {
	delete(s.words, strings.ToLower(word))
}

// Len returns the number of words in the set.
func (s *Set) Len() int {
	return len(s.words)
}

// Words returns the set contents sorted for stable output.
func (s *Set) Words() []string {
	out := make([]string, 0, len(s.words))
	for w := range s.words {
		out = append(out, w)
	}
	sort.Strings(out)
	return out
}

// parseList reads one word per line, skipping blanks and # comments.
func parseList(raw string) []string {
	var words []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	return words
}
