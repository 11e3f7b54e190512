package colloc

import (
	"math"
	"testing"

	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

func seqOf(docID string, segments ...[]string) *tokenize.Sequence {
	return &tokenize.Sequence{DocID: docID, Segments: segments}
}

func TestCounterBigramCounts(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"strong", "coffee", "strong", "coffee"}))

	if got := c.GramCount("strong", "coffee"); got != 2 {
		t.Errorf("GramCount(strong coffee) = %d, want 2", got)
	}
	if got := c.GramCount("coffee", "strong"); got != 1 {
		t.Errorf("GramCount(coffee strong) = %d, want 1", got)
	}
	if got := c.TokenCount("strong"); got != 2 {
		t.Errorf("TokenCount(strong) = %d, want 2", got)
	}
	if got := c.TotalTokens(); got != 4 {
		t.Errorf("TotalTokens() = %d, want 4", got)
	}
}

func TestCounterTrigrams(t *testing.T) {
	c := NewCounter(2, 3)
	c.AddSequence(seqOf("d1", []string{"new", "york", "city"}))

	if got := c.GramCount("new", "york"); got != 1 {
		t.Errorf("GramCount(new york) = %d, want 1", got)
	}
	if got := c.GramCount("york", "city"); got != 1 {
		t.Errorf("GramCount(york city) = %d, want 1", got)
	}
	if got := c.GramCount("new", "york", "city"); got != 1 {
		t.Errorf("GramCount(new york city) = %d, want 1", got)
	}
	if got := c.UniqueGrams(); got != 3 {
		t.Errorf("UniqueGrams() = %d, want 3", got)
	}
}

func TestCounterRespectsSegmentBoundaries(t *testing.T) {
	c := NewCounter(2, 3)
	// Two segments: something was removed between beta and gamma
	c.AddSequence(seqOf("d1", []string{"alpha", "beta"}, []string{"gamma", "delta"}))

	if got := c.GramCount("beta", "gamma"); got != 0 {
		t.Errorf("gram across segment boundary counted: %d", got)
	}
	if got := c.GramCount("alpha", "beta"); got != 1 {
		t.Errorf("GramCount(alpha beta) = %d, want 1", got)
	}
	if got := c.GramCount("alpha", "beta", "gamma"); got != 0 {
		t.Errorf("trigram across boundary counted: %d", got)
	}
}

func TestCounterShortSegmentsSkipped(t *testing.T) {
	c := NewCounter(2, 3)
	c.AddSequence(seqOf("d1", []string{"solo"}))

	if got := c.UniqueGrams(); got != 0 {
		t.Errorf("UniqueGrams() = %d, want 0", got)
	}
	if got := c.TotalTokens(); got != 1 {
		t.Errorf("TotalTokens() = %d, want 1 (single tokens still count)", got)
	}
}

func TestCandidatesMinCount(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"strong", "coffee", "strong", "coffee"}))

	p := DefaultParams()
	p.MinN, p.MaxN = 2, 2
	p.MinCount = 2

	got := c.Candidates(p)
	if len(got) != 1 {
		t.Fatalf("Candidates() = %d entries, want 1", len(got))
	}
	if got[0].Phrase() != "strong coffee" || got[0].Count != 2 {
		t.Errorf("Candidates()[0] = %s (count %d), want strong coffee (count 2)",
			got[0].Phrase(), got[0].Count)
	}
}

func TestCandidatesPMIOrdering(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"strong", "coffee", "strong", "coffee"}))

	p := DefaultParams()
	p.MinCount = 1

	got := c.Candidates(p)
	if len(got) != 2 {
		t.Fatalf("Candidates() = %d entries, want 2", len(got))
	}

	// The repeated pair must outrank the single wrap-around pair
	if got[0].Phrase() != "strong coffee" {
		t.Errorf("top candidate = %s, want strong coffee", got[0].Phrase())
	}
	if got[0].Score <= got[1].Score {
		t.Errorf("scores not ordered: %f <= %f", got[0].Score, got[1].Score)
	}
}

func TestCandidatesPMIValue(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"strong", "coffee", "strong", "coffee"}))

	p := DefaultParams()
	p.MinCount = 2

	got := c.Candidates(p)
	if len(got) != 1 {
		t.Fatalf("Candidates() = %d entries, want 1", len(got))
	}

	// log((2+1)*4 / ((2+1)*(2+1))) = log(4/3)
	want := math.Log(4.0 / 3.0)
	if math.Abs(got[0].Score-want) > 1e-9 {
		t.Errorf("PMI score = %f, want %f", got[0].Score, want)
	}
}

func TestCandidatesLexicographicTieBreak(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"aa", "bb"}, []string{"aa", "bb"}))
	c.AddSequence(seqOf("d2", []string{"cc", "dd"}, []string{"cc", "dd"}))

	p := DefaultParams()
	p.MinCount = 2

	got := c.Candidates(p)
	if len(got) != 2 {
		t.Fatalf("Candidates() = %d entries, want 2", len(got))
	}

	// Identical counts and scores: phrase text decides
	if got[0].Phrase() != "aa bb" || got[1].Phrase() != "cc dd" {
		t.Errorf("tie-break order = [%s %s], want [aa bb, cc dd]",
			got[0].Phrase(), got[1].Phrase())
	}
}

func TestCandidatesLogLik(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"aa", "bb"}, []string{"aa", "bb"}))
	c.AddSequence(seqOf("d2", []string{"cc", "dd"}, []string{"cc", "dd"}))

	p := DefaultParams()
	p.MinCount = 2
	p.Method = MethodLogLik

	got := c.Candidates(p)
	if len(got) != 2 {
		t.Fatalf("Candidates() = %d entries, want 2", len(got))
	}

	// expected = 8*(2/8)*(2/8) = 0.5; score = 2*2*ln(2/0.5) = 4*ln(4)
	want := 4 * math.Log(4.0)
	if math.Abs(got[0].Score-want) > 1e-9 {
		t.Errorf("loglik score = %f, want %f", got[0].Score, want)
	}
}

func TestCandidatesDocFrequency(t *testing.T) {
	c := NewCounter(2, 2)
	c.AddSequence(seqOf("d1", []string{"new", "york"}, []string{"new", "york"}))
	c.AddSequence(seqOf("d2", []string{"new", "york"}))

	p := DefaultParams()
	p.MinCount = 3

	got := c.Candidates(p)
	if len(got) != 1 {
		t.Fatalf("Candidates() = %d entries, want 1", len(got))
	}
	if got[0].Count != 3 {
		t.Errorf("Count = %d, want 3", got[0].Count)
	}
	if got[0].Docs != 2 {
		t.Errorf("Docs = %d, want 2", got[0].Docs)
	}
}

func TestCandidatesEmptyInput(t *testing.T) {
	c := NewCounter(2, 3)

	got := c.Candidates(DefaultParams())
	if len(got) != 0 {
		t.Errorf("Candidates() on empty counter = %d entries, want 0", len(got))
	}
}

func TestDetect(t *testing.T) {
	seqs := []*tokenize.Sequence{
		seqOf("d1", []string{"climate", "change", "policy"}),
		seqOf("d2", []string{"climate", "change"}),
	}

	p := DefaultParams()
	p.MinCount = 2

	got := Detect(seqs, p)
	if len(got) != 1 {
		t.Fatalf("Detect() = %d candidates, want 1", len(got))
	}
	if got[0].Phrase() != "climate change" {
		t.Errorf("Detect()[0] = %s, want climate change", got[0].Phrase())
	}
}

func TestNewCounterRangeFallback(t *testing.T) {
	c := NewCounter(0, 0)
	if c.minN != 2 || c.maxN != 2 {
		t.Errorf("NewCounter(0,0) range = %d..%d, want 2..2", c.minN, c.maxN)
	}
}
