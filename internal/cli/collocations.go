package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/parchlabs/wordfield/pkg/wordfield/colloc"
	"github.com/parchlabs/wordfield/pkg/wordfield/tokenize"
)

var (
	colFormat  string
	colTimeout time.Duration
)

// collocationsCmd represents the collocations command
var collocationsCmd = &cobra.Command{
	Use:   "collocations <corpus>",
	Short: "Detect and rank multi-word collocations in a corpus",
	Long: `Collocations tokenizes the corpus and reports scored multi-word
candidates without building a matrix.

Candidates are contiguous token runs of the requested lengths that
never cross a stopword boundary, ranked by association score with
occurrence count as the tie-break.

Example:
  wordfield collocations corpus.jsonl
  wordfield collocations corpus.jsonl --min-count 5 --format json
  wordfield collocations corpus.jsonl --method loglik --top-collocations 20`,
	Args: cobra.ExactArgs(1),
	RunE: runCollocations,
}

func init() {
	rootCmd.AddCommand(collocationsCmd)

	collocationsCmd.Flags().StringVar(&paramsPath, "params", "", "pipeline parameters YAML file")
	collocationsCmd.Flags().StringVar(&stoplistPath, "stoplist", "", "stopword list YAML file (replaces the built-in set)")
	collocationsCmd.Flags().BoolVar(&fromDB, "from-db", false, "read the corpus from a SQLite store instead of JSONL")
	collocationsCmd.Flags().BoolVar(&stripMarkup, "strip-html", false, "strip HTML markup from document text")
	collocationsCmd.Flags().IntVar(&minN, "min-n", 2, "smallest collocation length")
	collocationsCmd.Flags().IntVar(&maxN, "max-n", 3, "largest collocation length")
	collocationsCmd.Flags().Int64Var(&minCount, "min-count", 2, "minimum collocation occurrences")
	collocationsCmd.Flags().StringVar(&method, "method", "pmi", "association score (pmi, loglik)")
	collocationsCmd.Flags().IntVar(&topCandidates, "top-collocations", 0, "keep only the N best collocations (0 = all)")
	collocationsCmd.Flags().StringVar(&colFormat, "format", "plain", "output format (plain, json)")
	collocationsCmd.Flags().DurationVar(&colTimeout, "timeout", 5*time.Minute, "overall timeout")
}

func runCollocations(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), colTimeout)
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
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", path)
		fmt.Fprintf(os.Stderr, "Documents: %d\n\n", c.Len())
	}

	tok := tokenize.New(comp.Stopwords)
	seqs := make([]*tokenize.Sequence, 0, c.Len())
	for _, d := range c.Docs() {
		if err := d.Validate(); err != nil {
			if verbose {
				fmt.Fprintf(os.Stderr, "✗ Skipped invalid document %q: %v\n", d.ID, err)
			}
			continue
		}
		seqs = append(seqs, tok.Tokenize(d.ID, d.Text))
	}

	p := colloc.DefaultParams()
	p.MinN = comp.Params.MinN
	p.MaxN = comp.Params.MaxN
	p.MinCount = comp.Params.MinCount
	p.Method = colloc.Method(comp.Params.Method)

	cands := colloc.Detect(seqs, p)
	if comp.Params.Top > 0 && len(cands) > comp.Params.Top {
		cands = cands[:comp.Params.Top]
	}

	if colFormat == "json" {
		out, err := json.MarshalIndent(cands, "", "  ")
		if err != nil {
			return fmt.Errorf("encode collocations: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(cands) == 0 {
		fmt.Println("No collocations met the thresholds.")
		return nil
	}
	fmt.Printf("%d collocations (method=%s, n=%d-%d, min count %d)\n\n",
		len(cands), comp.Params.Method, comp.Params.MinN, comp.Params.MaxN, comp.Params.MinCount)
	for i, cand := range cands {
		fmt.Printf("%4d. %-30s count=%-5d docs=%-4d score=%.3f\n",
			i+1, cand.Phrase(), cand.Count, cand.Docs, cand.Score)
	}
	return nil
}
