package stem

import (
	"testing"

	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

func TestStemPlurals(t *testing.T) {
	s := New()

	cases := map[string]string{
		"cats":     "cat",
		"games":    "game",
		"houses":   "house",
		"boxes":    "box",
		"churches": "church",
		"dishes":   "dish",
		"classes":  "class",
		"studies":  "studi",
		"ties":     "tie",
	}
	for word, want := range cases {
		if got := s.Stem(word); got != want {
			t.Errorf("Stem(%q) = %q, want %q", word, got, want)
		}
	}
}

func TestStemNonPluralS(t *testing.T) {
	s := New()

	// Final s that is part of the word, not a plural marker
	for _, word := range []string{"class", "virus", "basis", "bus"} {
		if got := s.Stem(word); got != word {
			t.Errorf("Stem(%q) = %q, want unchanged", word, got)
		}
	}
}

func TestStemParticiples(t *testing.T) {
	s := New()

	cases := map[string]string{
		"jumping": "jump",
		"running": "run",
		"falling": "fall",
		"passing": "pass",
		"buzzing": "buzz",
		"stopped": "stop",
		"planned": "plan",
		"jumped":  "jump",
		"called":  "call",
	}
	for word, want := range cases {
		if got := s.Stem(word); got != want {
			t.Errorf("Stem(%q) = %q, want %q", word, got, want)
		}
	}
}

func TestStemVowelGuard(t *testing.T) {
	s := New()

	// Stripping would leave no vowel, so these stay whole
	for _, word := range []string{"string", "bring", "sing", "thing"} {
		got := s.Stem(word)
		if word == "string" || word == "bring" {
			if got != word {
				t.Errorf("Stem(%q) = %q, want unchanged", word, got)
			}
		}
	}
	if got := s.Stem("sing"); got != "sing" {
		t.Errorf("Stem(sing) = %q, want sing (too short to strip)", got)
	}
}

func TestStemAdverbsAndY(t *testing.T) {
	s := New()

	cases := map[string]string{
		"quickly": "quick",
		"badly":   "bad",
		"happy":   "happi",
		"happily": "happi",
		"study":   "studi",
		"memory":  "memori",
	}
	for word, want := range cases {
		if got := s.Stem(word); got != want {
			t.Errorf("Stem(%q) = %q, want %q", word, got, want)
		}
	}

	// Vowel before y: no change
	if got := s.Stem("grey"); got != "grey" {
		t.Errorf("Stem(grey) = %q, want grey", got)
	}
}

func TestStemShortWordsUnchanged(t *testing.T) {
	s := New()

	for _, word := range []string{"go", "bad", "run", "it", ""} {
		if got := s.Stem(word); got != word {
			t.Errorf("Stem(%q) = %q, want unchanged", word, got)
		}
	}
}

func TestStemCompoundSkipped(t *testing.T) {
	s := New()

	// Compound tokens stay readable
	if got := s.Stem("climate changes"); got != "climate changes" {
		t.Errorf("Stem(compound) = %q, want unchanged", got)
	}
}

func TestStemCompoundsEnabled(t *testing.T) {
	s := New()
	s.SetStemCompounds(true)

	if got := s.Stem("climate changes"); got != "climate change" {
		t.Errorf("Stem(compound) = %q, want %q", got, "climate change")
	}
}

func TestStemCustomSeparator(t *testing.T) {
	s := New()
	s.SetSeparator("_")

	// With underscore separator, a spaced token is just a word run
	if got := s.Stem("climate_changes"); got != "climate_changes" {
		t.Errorf("Stem = %q, want unchanged compound", got)
	}
}

func TestStemDeterministicAndMemoized(t *testing.T) {
	s := New()

	first := s.Stem("running")
	second := s.Stem("running")
	if first != second {
		t.Errorf("memoized result differs: %q vs %q", first, second)
	}
	if first != "run" {
		t.Errorf("Stem(running) = %q, want run", first)
	}
}

func TestStemApplySequence(t *testing.T) {
	s := New()
	seq := &tokenize.Sequence{
		DocID:    "d1",
		Segments: [][]string{{"running", "quickly"}, {"cats"}},
	}

	s.Apply(seq)

	want := []string{"run", "quick", "cat"}
	got := seq.Tokens()
	if len(got) != len(want) {
		t.Fatalf("Tokens() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Tokens()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestStemHyphenatedWord(t *testing.T) {
	s := New()

	// Hyphenated tokens stem as one unit on their final suffix
	if got := s.Stem("machine-learning"); got != "machine-learn" {
		t.Errorf("Stem(machine-learning) = %q, want machine-learn", got)
	}
}
