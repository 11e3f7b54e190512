package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/parchlabs/wordfield/internal/jsonl"
	"github.com/parchlabs/wordfield/pkg/wordfield"
	"github.com/parchlabs/wordfield/pkg/wordfield/colloc"
	"github.com/parchlabs/wordfield/pkg/wordfield/config"
	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/report"
	"github.com/parchlabs/wordfield/pkg/wordfield/store"
	"github.com/parchlabs/wordfield/pkg/wordfield/store/sqlite"
)

var (
	paramsPath   string
	stoplistPath string
	dictPath     string
	outputDir    string
	dbPath       string
	fromDB       bool
	stripMarkup  bool

	minN          int
	maxN          int
	minCount      int64
	method        string
	topCandidates int
	separator     string
	noStem        bool
	stemCompounds bool
	groupBy       string
	minTermFreq   int64
	minDocFreq    float64
	docFreqType   string
	workers       int
	strict        bool

	analyzeTimeout time.Duration
)

// analyzeCmd represents the analyze command
var analyzeCmd = &cobra.Command{
	Use:   "analyze <corpus>",
	Short: "Run the full pipeline over a corpus and write report artifacts",
	Long: `Analyze runs the complete pipeline over a corpus:
- Tokenize documents around the stopword list
- Detect multi-word collocations by association score
- Compound accepted collocations into single features
- Stem and dictionary-normalize the surviving tokens
- Build the document-feature matrix and trim rare features
- Rank feature frequencies per group

Artifacts (frequencies.json, frequencies.csv, dfm.csv, summary.json)
are written to the output directory.

Example:
  wordfield analyze corpus.jsonl
  wordfield analyze corpus.jsonl --group-by category --min-termfreq 2
  wordfield analyze corpus.db --from-db --db runs.db --out ./reports`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	rootCmd.AddCommand(analyzeCmd)

	// Input flags
	analyzeCmd.Flags().StringVar(&paramsPath, "params", "", "pipeline parameters YAML file")
	analyzeCmd.Flags().StringVar(&stoplistPath, "stoplist", "", "stopword list YAML file (replaces the built-in set)")
	analyzeCmd.Flags().StringVar(&dictPath, "dict", "", "dictionary file (YAML or key|pattern lines)")
	analyzeCmd.Flags().BoolVar(&fromDB, "from-db", false, "read the corpus from a SQLite store instead of JSONL")
	analyzeCmd.Flags().BoolVar(&stripMarkup, "strip-html", false, "strip HTML markup from document text")

	// Pipeline flags
	analyzeCmd.Flags().IntVar(&minN, "min-n", 2, "smallest collocation length")
	analyzeCmd.Flags().IntVar(&maxN, "max-n", 3, "largest collocation length")
	analyzeCmd.Flags().Int64Var(&minCount, "min-count", 2, "minimum collocation occurrences")
	analyzeCmd.Flags().StringVar(&method, "method", "pmi", "association score (pmi, loglik)")
	analyzeCmd.Flags().IntVar(&topCandidates, "top-collocations", 0, "keep only the N best collocations (0 = all)")
	analyzeCmd.Flags().StringVar(&separator, "separator", " ", "compound token joiner")
	analyzeCmd.Flags().BoolVar(&noStem, "no-stem", false, "disable stemming")
	analyzeCmd.Flags().BoolVar(&stemCompounds, "stem-compounds", false, "stem the words inside compound tokens")
	analyzeCmd.Flags().StringVar(&groupBy, "group-by", "", "document attribute to group rows by")
	analyzeCmd.Flags().Int64Var(&minTermFreq, "min-termfreq", 0, "minimum total feature count")
	analyzeCmd.Flags().Float64Var(&minDocFreq, "min-docfreq", 0, "minimum document frequency")
	analyzeCmd.Flags().StringVar(&docFreqType, "docfreq-type", "count", "docfreq threshold unit (count, proportion)")
	analyzeCmd.Flags().IntVar(&workers, "workers", 0, "parallel tokenization workers (0 = sequential)")
	analyzeCmd.Flags().BoolVar(&strict, "strict", false, "abort on the first invalid document")

	// Output flags
	analyzeCmd.Flags().StringVar(&outputDir, "out", "", "output directory for report artifacts (default: wordfield-out)")
	analyzeCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database to persist the run")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 5*time.Minute, "overall analysis timeout")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	comp, err := loadComponents(cmd)
	if err != nil {
		return err
	}

	c, err := loadCorpus(ctx, path)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Analyzing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Documents: %d\n", c.Len())
		fmt.Fprintf(os.Stderr, "Method: %s, n-grams %d-%d, min count %d\n",
			comp.Params.Method, comp.Params.MinN, comp.Params.MaxN, comp.Params.MinCount)
		fmt.Fprintln(os.Stderr)
	}

	analyzer := wordfield.New(buildOptions(comp))
	res, err := analyzer.Run(ctx, c)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Detected %d collocations\n", len(res.Collocations))
		fmt.Fprintf(os.Stderr, "✓ Matrix: %d rows x %d features\n", res.DFM.NRows(), res.DFM.NFeatures())
		if res.Grouped != nil {
			fmt.Fprintf(os.Stderr, "✓ Grouped into %d rows by %q\n", res.Grouped.NRows(), comp.Params.GroupBy)
		}
		for _, id := range res.Skipped {
			fmt.Fprintf(os.Stderr, "✗ Skipped invalid document %q\n", id)
		}
		for _, warn := range res.Warnings {
			fmt.Fprintf(os.Stderr, "! %s\n", warn)
		}
		fmt.Fprintln(os.Stderr)
	}

	paramsJSON, err := json.Marshal(comp.Params)
	if err != nil {
		return fmt.Errorf("encode params: %w", err)
	}

	dir := resolveSetting(outputDir, "output_dir")
	if dir == "" {
		dir = "wordfield-out"
	}

	w := report.Writer{Dir: dir}
	if err := w.WriteFrequencyJSON("frequencies.json", res.Table); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := w.WriteFrequencyCSV("frequencies.csv", res.Table); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if err := w.WriteCellsCSV("dfm.csv", res.DFM.Triples()); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	sum := report.Summary{
		RunID:       res.RunID,
		CreatedAt:   time.Now().UTC(),
		Params:      paramsJSON,
		Docs:        res.DFM.NRows(),
		Features:    res.DFM.NFeatures(),
		Skipped:     res.Skipped,
		Warnings:    res.Warnings,
		TopFeatures: report.TopFeatures(res.Table, 10),
	}
	if err := w.WriteSummary(sum); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Wrote artifacts to %s\n", dir)
	}

	if db := resolveSetting(dbPath, "db"); db != "" {
		st, err := sqlite.Open(ctx, db)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer st.Close()

		run := store.Run{
			ID:      res.RunID,
			Params:  string(paramsJSON),
			Cells:   res.DFM.Triples(),
			Entries: res.Table,
		}
		if err := st.SaveRun(ctx, run); err != nil {
			return fmt.Errorf("save run: %w", err)
		}
		if verbose {
			fmt.Fprintf(os.Stderr, "✓ Saved run %s to %s\n", res.RunID, db)
		}
	}

	fmt.Printf("Run %s: %d documents, %d features, %d table entries\n",
		res.RunID, res.DFM.NRows(), res.DFM.NFeatures(), len(res.Table))

	return nil
}

// loadComponents resolves resource paths from flags and the viper
// config, loads them, and overlays explicitly set pipeline flags.
func loadComponents(cmd *cobra.Command) (*config.Components, error) {
	loader := &config.Loader{
		StoplistPath: resolveSetting(stoplistPath, "stoplist"),
		DictPath:     resolveSetting(dictPath, "dict"),
		ParamsPath:   resolveSetting(paramsPath, "params"),
	}
	comp, err := loader.Load()
	if err != nil {
		return nil, err
	}

	applyFlagOverrides(cmd, &comp.Params)
	if err := comp.Params.Validate(); err != nil {
		return nil, err
	}
	return comp, nil
}

// applyFlagOverrides overlays pipeline flags the user set explicitly
// onto parameters loaded from file or defaults. Flags a command never
// registered report unchanged and leave the loaded value alone.
func applyFlagOverrides(cmd *cobra.Command, p *config.Params) {
	f := cmd.Flags()
	if f.Changed("min-n") {
		p.MinN = minN
	}
	if f.Changed("max-n") {
		p.MaxN = maxN
	}
	if f.Changed("min-count") {
		p.MinCount = minCount
	}
	if f.Changed("method") {
		p.Method = method
	}
	if f.Changed("top-collocations") {
		p.Top = topCandidates
	}
	if f.Changed("separator") {
		p.Separator = separator
	}
	if f.Changed("no-stem") {
		p.Stemming = !noStem
	}
	if f.Changed("stem-compounds") {
		p.StemCompounds = stemCompounds
	}
	if f.Changed("group-by") {
		p.GroupBy = groupBy
	}
	if f.Changed("min-termfreq") {
		p.MinTermFreq = minTermFreq
	}
	if f.Changed("min-docfreq") {
		p.MinDocFreq = minDocFreq
	}
	if f.Changed("docfreq-type") {
		p.DocFreqType = docFreqType
	}
	if f.Changed("workers") {
		p.Workers = workers
	}
	if f.Changed("strict") {
		p.Strict = strict
	}
}

// buildOptions maps loaded components onto analyzer options.
func buildOptions(comp *config.Components) wordfield.Options {
	p := comp.Params
	return wordfield.Options{
		Stopwords:  comp.Stopwords,
		Dictionary: comp.Dictionary,
		Collocations: wordfield.Collocations{
			MinN:     p.MinN,
			MaxN:     p.MaxN,
			MinCount: p.MinCount,
			Method:   colloc.Method(p.Method),
			Top:      p.Top,
		},
		Stemming:      p.Stemming,
		StemCompounds: p.StemCompounds,
		Separator:     p.Separator,
		GroupBy:       p.GroupBy,
		Trim: dfm.TrimOptions{
			MinTermFreq: p.MinTermFreq,
			MinDocFreq:  p.MinDocFreq,
			DocFreqType: dfm.DocFreqType(p.DocFreqType),
		},
		Strict:  p.Strict,
		Workers: p.Workers,
	}
}

// loadCorpus reads documents from a JSONL file, or from a SQLite
// store when --from-db is set.
func loadCorpus(ctx context.Context, path string) (*corpus.Corpus, error) {
	if fromDB {
		st, err := sqlite.Open(ctx, path)
		if err != nil {
			return nil, err
		}
		defer st.Close()

		docs, err := st.AllDocs(ctx)
		if err != nil {
			return nil, err
		}
		c := corpus.New()
		for _, d := range docs {
			if err := c.Add(d); err != nil {
				return nil, err
			}
		}
		return c, nil
	}

	raws, err := jsonl.Load(path)
	if err != nil {
		return nil, err
	}
	if stripMarkup {
		for i := range raws {
			raws[i].Text = jsonl.StripHTML(raws[i].Text)
		}
	}
	return jsonl.ToCorpus(raws)
}

// resolveSetting prefers an explicit flag value over the viper config.
func resolveSetting(value, key string) string {
	if value != "" {
		return value
	}
	return viper.GetString(key)
}
