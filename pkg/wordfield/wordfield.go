// Package wordfield turns raw text corpora into document-feature
// matrices and ranked frequency tables.
package wordfield

import (
	"context"
	"crypto/rand"
	"sync"

	"github.com/oklog/ulid/v2"

	"github.com/parchlabs/wordfield/pkg/wordfield/colloc"
	"github.com/parchlabs/wordfield/pkg/wordfield/compound"
	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/dict"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
	"github.com/parchlabs/wordfield/pkg/wordfield/stem"
	"github.com/parchlabs/wordfield/pkg/wordfield/stopwords"
	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

// Collocations configures phrase detection.
type Collocations struct {
	MinN     int
	MaxN     int
	MinCount int64
	Method   colloc.Method

	// Top caps how many ranked candidates are accepted for
	// compounding. Zero accepts all.
	Top int
}

// Options configures an Analyzer.
type Options struct {
	Stopwords     *stopwords.Set   // nil means the built-in English set
	Dictionary    *dict.Dictionary // optional key normalization
	Collocations  Collocations
	Stemming      bool
	StemCompounds bool
	Separator     string // compound joiner, default " "
	GroupBy       string // document attribute to group rows by
	Trim          dfm.TrimOptions
	Strict        bool // abort on the first invalid document
	Workers       int  // parallel tokenization; <=1 is sequential
}

// DefaultOptions returns the standard pipeline: built-in English
// stopwords, 2..3-gram PMI collocations with a minimum count of 2,
// stemming on, space-joined compounds.
func DefaultOptions() Options {
	return Options{
		Collocations: Collocations{MinN: 2, MaxN: 3, MinCount: 2, Method: colloc.MethodPMI},
		Stemming:     true,
		Separator:    " ",
	}
}

// Result holds everything one analysis run produces.
type Result struct {
	// DFM is the per-document matrix after trimming.
	DFM *dfm.Matrix

	// Grouped is the matrix with rows merged by the GroupBy attribute,
	// nil when no grouping was requested.
	Grouped *dfm.Matrix

	// Collocations are the accepted multi-word candidates, best first.
	Collocations []colloc.Candidate

	// Table is the ranked frequency table, grouped when GroupBy is set.
	Table []freq.Entry

	// Skipped lists IDs of documents rejected as invalid.
	Skipped []string

	Warnings []string
	RunID    string
}

// Analyzer runs the analysis pipeline over corpora. It is safe for
// concurrent use.
type Analyzer struct {
	opts    Options
	tok     *tokenize.Tokenizer
	stemmer *stem.Stemmer

	mu      sync.Mutex
	entropy *ulid.MonotonicEntropy
}

// New creates an Analyzer. Zero fields in opts fall back to the
// DefaultOptions values, except the boolean switches which are taken
// as given.
func New(opts Options) *Analyzer {
	if opts.Stopwords == nil {
		opts.Stopwords = stopwords.English()
	}
	if opts.Separator == "" {
		opts.Separator = " "
	}
	if opts.Collocations.MinN < 2 {
		opts.Collocations.MinN = 2
	}
	if opts.Collocations.MaxN == 0 {
		opts.Collocations.MaxN = 3
	}
	if opts.Collocations.MaxN < opts.Collocations.MinN {
		opts.Collocations.MaxN = opts.Collocations.MinN
	}
	if opts.Collocations.MinCount < 1 {
		opts.Collocations.MinCount = 2
	}
	if opts.Collocations.Method == "" {
		opts.Collocations.Method = colloc.MethodPMI
	}
	if opts.Trim.DocFreqType == "" {
		opts.Trim.DocFreqType = dfm.DocFreqCount
	}

	stemmer := stem.New()
	stemmer.SetSeparator(opts.Separator)
	stemmer.SetStemCompounds(opts.StemCompounds)

	return &Analyzer{
		opts:    opts,
		tok:     tokenize.New(opts.Stopwords),
		stemmer: stemmer,
		entropy: ulid.Monotonic(rand.Reader, 0),
	}
}

// Options returns the normalized options the Analyzer runs with.
func (a *Analyzer) Options() Options {
	return a.opts
}

// Run executes the pipeline: tokenize every document, detect and
// compound collocations, stem, normalize against the dictionary, build
// the document-feature matrix, trim, group, and rank frequencies.
//
// An empty corpus yields an empty Result and no error. Invalid
// documents are skipped and reported in Result.Skipped unless Strict
// is set, in which case the first one aborts the run.
func (a *Analyzer) Run(ctx context.Context, c *corpus.Corpus) (Result, error) {
	res := Result{RunID: a.newRunID()}

	if c == nil || c.Len() == 0 {
		res.DFM = dfm.NewBuilder().Build()
		res.Table = []freq.Entry{}
		return res, nil
	}

	seqs, skipped, err := a.tokenizeAll(ctx, c)
	if err != nil {
		return Result{}, err
	}
	res.Skipped = skipped

	params := colloc.DefaultParams()
	params.MinN = a.opts.Collocations.MinN
	params.MaxN = a.opts.Collocations.MaxN
	params.MinCount = a.opts.Collocations.MinCount
	params.Method = a.opts.Collocations.Method

	candidates := colloc.Detect(seqs, params)
	if top := a.opts.Collocations.Top; top > 0 && len(candidates) > top {
		candidates = candidates[:top]
	}
	res.Collocations = candidates

	comp := compound.New(candidates, a.opts.Separator)
	for _, seq := range seqs {
		comp.Apply(seq)
		if a.opts.Stemming {
			a.stemmer.Apply(seq)
		}
		if a.opts.Dictionary != nil {
			a.opts.Dictionary.Normalize(seq)
		}
	}

	builder := dfm.NewBuilder()
	for _, seq := range seqs {
		builder.Add(seq.DocID, seq.Tokens())
	}
	full := builder.Build()

	trimmed := full
	if a.opts.Trim.MinTermFreq > 0 || a.opts.Trim.MinDocFreq > 0 {
		trimmed = full.Trim(a.opts.Trim)
		if trimmed.NFeatures() == 0 && full.NFeatures() > 0 {
			res.Warnings = append(res.Warnings, "trim thresholds removed all features")
		}
	}
	res.DFM = trimmed

	if a.opts.GroupBy != "" {
		labels := c.GroupLabels(a.opts.GroupBy)
		res.Grouped = trimmed.Group(labels)
		res.Table = freq.TableByGroup(trimmed, labels)
	} else {
		res.Table = freq.Table(trimmed)
	}

	return res, nil
}

// tokenizeAll turns every valid document into a token sequence,
// preserving corpus order in the output regardless of Workers.
func (a *Analyzer) tokenizeAll(ctx context.Context, c *corpus.Corpus) ([]*tokenize.Sequence, []string, error) {
	docs := c.Docs()
	slots := make([]*tokenize.Sequence, len(docs))
	invalid := make([]error, len(docs))

	workers := a.opts.Workers
	if workers > len(docs) {
		workers = len(docs)
	}

	if workers <= 1 {
		for i := range docs {
			if err := ctx.Err(); err != nil {
				return nil, nil, err
			}
			a.tokenizeSlot(&docs[i], slots, invalid, i)
		}
	} else {
		jobs := make(chan int)
		var wg sync.WaitGroup
		for w := 0; w < workers; w++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for i := range jobs {
					a.tokenizeSlot(&docs[i], slots, invalid, i)
				}
			}()
		}

		var cancelled error
	feed:
		for i := range docs {
			select {
			case jobs <- i:
			case <-ctx.Done():
				cancelled = ctx.Err()
				break feed
			}
		}
		close(jobs)
		wg.Wait()
		if cancelled != nil {
			return nil, nil, cancelled
		}
	}

	seqs := make([]*tokenize.Sequence, 0, len(docs))
	var skipped []string
	for i := range docs {
		if invalid[i] != nil {
			if a.opts.Strict {
				return nil, nil, invalid[i]
			}
			skipped = append(skipped, docs[i].ID)
			continue
		}
		seqs = append(seqs, slots[i])
	}
	return seqs, skipped, nil
}

func (a *Analyzer) tokenizeSlot(d *corpus.Document, slots []*tokenize.Sequence, invalid []error, i int) {
	if err := d.Validate(); err != nil {
		invalid[i] = err
		return
	}
	slots[i] = a.tok.Tokenize(d.ID, d.Text)
}

func (a *Analyzer) newRunID() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Now(), a.entropy).String()
}
