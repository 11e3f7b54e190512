package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/parchlabs/wordfield/pkg/wordfield"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
)

var (
	topN       int
	topTimeout time.Duration
)

// topCmd represents the top command
var topCmd = &cobra.Command{
	Use:   "top <corpus>",
	Short: "Print the most frequent features per group",
	Long: `Top runs the pipeline and prints the N best-ranked features of
each group as a table. Without --group-by the whole corpus forms a
single group.

Example:
  wordfield top corpus.jsonl
  wordfield top corpus.jsonl --group-by category -n 10
  wordfield top corpus.db --from-db --min-termfreq 2`,
	Args: cobra.ExactArgs(1),
	RunE: runTop,
}

func init() {
	rootCmd.AddCommand(topCmd)

	topCmd.Flags().StringVar(&paramsPath, "params", "", "pipeline parameters YAML file")
	topCmd.Flags().StringVar(&stoplistPath, "stoplist", "", "stopword list YAML file (replaces the built-in set)")
	topCmd.Flags().StringVar(&dictPath, "dict", "", "dictionary file (YAML or key|pattern lines)")
	topCmd.Flags().BoolVar(&fromDB, "from-db", false, "read the corpus from a SQLite store instead of JSONL")
	topCmd.Flags().BoolVar(&stripMarkup, "strip-html", false, "strip HTML markup from document text")
	topCmd.Flags().IntVarP(&topN, "number", "n", 20, "features to show per group")
	topCmd.Flags().StringVar(&groupBy, "group-by", "", "document attribute to group rows by")
	topCmd.Flags().Int64Var(&minTermFreq, "min-termfreq", 0, "minimum total feature count")
	topCmd.Flags().Float64Var(&minDocFreq, "min-docfreq", 0, "minimum document frequency")
	topCmd.Flags().StringVar(&docFreqType, "docfreq-type", "count", "docfreq threshold unit (count, proportion)")
	topCmd.Flags().BoolVar(&noStem, "no-stem", false, "disable stemming")
	topCmd.Flags().DurationVar(&topTimeout, "timeout", 5*time.Minute, "overall timeout")
}

func runTop(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), topTimeout)
	defer cancel()

	comp, err := loadComponents(cmd)
	if err != nil {
		return err
	}

	c, err := loadCorpus(ctx, path)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	analyzer := wordfield.New(buildOptions(comp))
	res, err := analyzer.Run(ctx, c)
	if err != nil {
		return fmt.Errorf("analyze failed: %w", err)
	}

	for _, warn := range res.Warnings {
		fmt.Fprintf(os.Stderr, "! %s\n", warn)
	}

	entries := freq.TopN(res.Table, topN)
	if len(entries) == 0 {
		fmt.Println("No features met the thresholds.")
		return nil
	}

	group := ""
	first := true
	for _, e := range entries {
		if first || e.Group != group {
			if !first {
				fmt.Println()
			}
			fmt.Printf("Group %s:\n", e.Group)
			fmt.Printf("  %-5s %-30s %8s %8s\n", "RANK", "FEATURE", "COUNT", "DOCS")
			group = e.Group
			first = false
		}
		fmt.Printf("  %-5d %-30s %8d %8d\n", e.Rank, e.Feature, e.Count, e.DocFreq)
	}
	return nil
}
