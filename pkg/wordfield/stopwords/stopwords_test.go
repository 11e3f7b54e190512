package stopwords

import (
	"errors"
	"testing"

	"github.com/parchlabs/wordfield/pkg/wordfield/internalerr"
)

func TestSetContains(t *testing.T) {
	s := New([]string{"the", "a", "and"})

	if !s.Contains("the") {
		t.Error("Contains(the) = false, want true")
	}
	if s.Contains("cat") {
		t.Error("Contains(cat) = true, want false")
	}
}

func TestSetCaseInsensitive(t *testing.T) {
	s := New([]string{"THE"})

	if !s.Contains("the") || !s.Contains("The") || !s.Contains("THE") {
		t.Error("lookups should be case-insensitive")
	}
}

func TestSetAddRemove(t *testing.T) {
	s := New(nil)

	s.Add("foo")
	if !s.Contains("foo") {
		t.Error("Add(foo) not visible")
	}

	s.Remove("foo")
	if s.Contains("foo") {
		t.Error("Remove(foo) not applied")
	}
}

func TestSetAddBlankIgnored(t *testing.T) {
	s := New(nil)
	s.Add("   ")
	if s.Len() != 0 {
		t.Errorf("blank word should be ignored, Len() = %d", s.Len())
	}
}

func TestSetDuplicates(t *testing.T) {
	s := New([]string{"the", "the", "The"})
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSetWordsSorted(t *testing.T) {
	s := New([]string{"zebra", "apple", "mango"})
	words := s.Words()

	want := []string{"apple", "mango", "zebra"}
	for i := range want {
		if words[i] != want[i] {
			t.Errorf("Words()[%d] = %s, want %s", i, words[i], want[i])
		}
	}
}

func TestEnglishBuiltin(t *testing.T) {
	s := English()

	// Spot-check common function words
	for _, w := range []string{"the", "and", "of", "very", "not"} {
		if !s.Contains(w) {
			t.Errorf("English list missing %q", w)
		}
	}

	// Content words stay out
	for _, w := range []string{"hombre", "idea", "matrix"} {
		if s.Contains(w) {
			t.Errorf("English list should not contain %q", w)
		}
	}

	if s.Len() < 100 {
		t.Errorf("English list suspiciously small: %d words", s.Len())
	}
}

func TestForLanguage(t *testing.T) {
	s, err := ForLanguage("english")
	if err != nil {
		t.Fatalf("ForLanguage(english): %v", err)
	}
	if !s.Contains("the") {
		t.Error("english list should contain 'the'")
	}

	s, err = ForLanguage("en")
	if err != nil || !s.Contains("the") {
		t.Errorf("ForLanguage(en) = %v, %v", s, err)
	}

	s, err = ForLanguage("none")
	if err != nil || s.Len() != 0 {
		t.Errorf("ForLanguage(none) should return an empty set, got %d words, %v", s.Len(), err)
	}

	_, err = ForLanguage("klingon")
	if !errors.Is(err, internalerr.ErrNotFound) {
		t.Errorf("ForLanguage(klingon) should fail with ErrNotFound, got %v", err)
	}
}
