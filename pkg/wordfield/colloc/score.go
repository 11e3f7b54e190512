package colloc

import (
	"math"
	"sort"
	"strings"

	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

// Method selects the association statistic used for ranking.
type Method string

const (
	// MethodPMI scores log((count+eps) * N^(n-1) / prod(tokenCount+eps)),
	// the smoothed pointwise mutual information of the gram against the
	// independence assumption.
	MethodPMI Method = "pmi"

	// MethodLogLik scores 2 * count * ln(count/expected), the leading
	// term of the likelihood-ratio statistic. Less biased toward rare
	// grams than PMI.
	MethodLogLik Method = "loglik"
)

// Params controls candidate detection.
type Params struct {
	MinN     int
	MaxN     int
	MinCount int64
	Method   Method
	Epsilon  float64
}

// DefaultParams returns the standard 2..3 gram window with a minimum
// count of 2 and PMI ranking.
func DefaultParams() Params {
	return Params{
		MinN:     2,
		MaxN:     3,
		MinCount: 2,
		Method:   MethodPMI,
		Epsilon:  1.0,
	}
}

// Candidate is a scored multi-word term.
type Candidate struct {
	Tokens []string `json:"tokens"`
	Count  int64    `json:"count"`
	Docs   int64    `json:"docs"`
	Score  float64  `json:"score"`
}

// Phrase returns the candidate tokens joined by a space.
func (c Candidate) Phrase() string {
	return strings.Join(c.Tokens, " ")
}

// Candidates extracts scored candidates meeting p.MinCount, ranked by
// score, then raw count, then phrase text for stable output.
func (c *Counter) Candidates(p Params) []Candidate {
	if p.MinCount < 1 {
		p.MinCount = 1
	}
	if p.Epsilon <= 0 {
		p.Epsilon = 1.0
	}
	if p.Method == "" {
		p.Method = MethodPMI
	}

	var out []Candidate
	for _, stat := range c.grams {
		if stat.count < p.MinCount {
			continue
		}
		out = append(out, Candidate{
			Tokens: stat.tokens,
			Count:  stat.count,
			Docs:   stat.docs,
			Score:  c.score(stat, p),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Phrase() < out[j].Phrase()
	})

	return out
}

func (c *Counter) score(stat *gramStat, p Params) float64 {
	if c.totalTokens == 0 {
		return 0
	}
	n := float64(c.totalTokens)

	switch p.Method {
	case MethodLogLik:
		expected := n
		for _, tok := range stat.tokens {
			expected *= float64(c.tokenCounts[tok]) / n
		}
		if expected == 0 {
			return 0
		}
		return 2 * float64(stat.count) * math.Log(float64(stat.count)/expected)

	default:
		numerator := (float64(stat.count) + p.Epsilon) * math.Pow(n, float64(len(stat.tokens)-1))
		denominator := 1.0
		for _, tok := range stat.tokens {
			denominator *= float64(c.tokenCounts[tok]) + p.Epsilon
		}
		if denominator == 0 {
			return 0
		}
		return math.Log(numerator / denominator)
	}
}

// Detect runs the candidate search over a set of sequences in one call.
func Detect(seqs []*tokenize.Sequence, p Params) []Candidate {
	counter := NewCounter(p.MinN, p.MaxN)
	for _, seq := range seqs {
		counter.AddSequence(seq)
	}
	return counter.Candidates(p)
}
