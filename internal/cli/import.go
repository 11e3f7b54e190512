package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/parchlabs/wordfield/internal/jsonl"
	"github.com/parchlabs/wordfield/pkg/wordfield/corpus"
	"github.com/parchlabs/wordfield/pkg/wordfield/store/sqlite"
)

var importTimeout time.Duration

// importCmd represents the import command
var importCmd = &cobra.Command{
	Use:   "import <jsonl>",
	Short: "Import a JSONL corpus into a SQLite store",
	Long: `Import reads one JSON document per line ({"id", "text", "attrs"})
and upserts each into the SQLite store. Re-importing a document with
the same ID replaces its text and attributes.

Example:
  wordfield import corpus.jsonl --db corpus.db
  wordfield import posts.jsonl --db corpus.db --strip-html`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

func init() {
	rootCmd.AddCommand(importCmd)

	importCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (required)")
	importCmd.Flags().BoolVar(&stripMarkup, "strip-html", false, "strip HTML markup from document text")
	importCmd.Flags().DurationVar(&importTimeout, "timeout", 5*time.Minute, "overall import timeout")
}

func runImport(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), importTimeout)
	defer cancel()

	db := resolveSetting(dbPath, "db")
	if db == "" {
		return fmt.Errorf("no database given: set --db or the db config key")
	}

	raws, err := jsonl.Load(path)
	if err != nil {
		return fmt.Errorf("load corpus: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Importing: %s\n", path)
		fmt.Fprintf(os.Stderr, "Documents: %d\n", len(raws))
		fmt.Fprintf(os.Stderr, "Database: %s\n\n", db)
	}

	st, err := sqlite.Open(ctx, db)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	imported := 0
	for _, raw := range raws {
		text := raw.Text
		if stripMarkup {
			text = jsonl.StripHTML(text)
		}

		doc := corpus.Document{ID: raw.ID, Text: text, Attrs: raw.Attrs}
		if err := doc.Validate(); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", raw.ID, err)
			continue
		}
		if err := st.UpsertDoc(ctx, doc); err != nil {
			return fmt.Errorf("import %s: %w", raw.ID, err)
		}
		imported++
	}

	total, err := st.CountDocs(ctx)
	if err != nil {
		return fmt.Errorf("count documents: %w", err)
	}

	fmt.Printf("Imported %d of %d documents, store now holds %d\n", imported, len(raws), total)
	return nil
}
