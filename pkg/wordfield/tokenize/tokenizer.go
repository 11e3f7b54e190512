package tokenize

import (
	"strings"
	"unicode"

	"github.com/parchlabs/wordfield/pkg/wordfield/stopwords"
)

// Tokenizer handles text tokenization and normalization
type Tokenizer struct {
	stopwords *stopwords.Set
}

// New creates a tokenizer with the given stopword set. A nil set means
// no stopword filtering.
func New(stops *stopwords.Set) *Tokenizer {
	if stops == nil {
		stops = stopwords.New(nil)
	}
	return &Tokenizer{stopwords: stops}
}

// Stopwords returns the tokenizer's stopword set for adjustment.
func (t *Tokenizer) Stopwords() *stopwords.Set {
	return t.stopwords
}

// Tokenize splits text into normalized tokens grouped into adjacency
// segments. A candidate word dropped for any reason (stopword, pure
// number, single character, URL) closes the current segment; bare
// punctuation and whitespace do not.
func (t *Tokenizer) Tokenize(docID, text string) *Sequence {
	seq := &Sequence{DocID: docID}
	var current []string

	flush := func() {
		if len(current) > 0 {
			seq.Segments = append(seq.Segments, current)
			current = nil
		}
	}

	for _, field := range strings.Fields(text) {
		if isURL(field) {
			flush()
			continue
		}

		var b strings.Builder
		emit := func() {
			if b.Len() == 0 {
				return
			}
			word := t.processToken(b.String())
			b.Reset()
			if word == "" {
				flush()
				return
			}
			current = append(current, word)
		}

		for _, r := range field {
			if unicode.IsLetter(r) || unicode.IsNumber(r) || r == '-' {
				b.WriteRune(unicode.ToLower(r))
			} else {
				emit()
			}
		}
		emit()
	}

	flush()
	return seq
}

// processToken applies cleaning, length and numeric filters, and
// stopword removal. Returns "" when the token is dropped.
func (t *Tokenizer) processToken(token string) string {
	word := cleanToken(token)
	if word == "" || len(word) <= 1 {
		return ""
	}

	// Pure-numeric tokens carry no lexical content. Mixed tokens like
	// "gpt-4" or "utf-8" are kept.
	if isNumericOnly(word) {
		return ""
	}

	if t.stopwords.Contains(word) {
		return ""
	}

	return word
}

// cleanToken strips leading/trailing hyphens and collapses consecutive hyphens
func cleanToken(token string) string {
	token = strings.Trim(token, "-")

	for strings.Contains(token, "--") {
		token = strings.ReplaceAll(token, "--", "-")
	}

	return token
}

// isNumericOnly returns true if the token contains only digits and hyphens.
func isNumericOnly(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) && r != '-' {
			return false
		}
	}
	return true
}

// isURL reports whether a whitespace-delimited field looks like a URL.
func isURL(field string) bool {
	lower := strings.ToLower(field)
	return strings.Contains(lower, "://") || strings.HasPrefix(lower, "www.")
}
