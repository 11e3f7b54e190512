package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/parchlabs/wordfield/pkg/wordfield/dfm"
	"github.com/parchlabs/wordfield/pkg/wordfield/freq"
	"github.com/parchlabs/wordfield/pkg/wordfield/store/sqlite"
)

var (
	runsShow    string
	runsLimit   int
	runsTimeout time.Duration
)

// runsCmd represents the runs command
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List analysis runs stored in a SQLite database",
	Long: `Runs lists stored analysis runs, newest first. With --show it
prints one run's matrix cells and frequency table as JSON instead.

Example:
  wordfield runs --db runs.db
  wordfield runs --db runs.db --limit 5
  wordfield runs --db runs.db --show 01J8ZK3V9Q`,
	Args: cobra.NoArgs,
	RunE: runRuns,
}

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (required)")
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "runs to list")
	runsCmd.Flags().StringVar(&runsShow, "show", "", "print this run's artifacts as JSON")
	runsCmd.Flags().DurationVar(&runsTimeout, "timeout", time.Minute, "overall timeout")
}

func runRuns(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), runsTimeout)
	defer cancel()

	db := resolveSetting(dbPath, "db")
	if db == "" {
		return fmt.Errorf("no database given: set --db or the db config key")
	}

	st, err := sqlite.Open(ctx, db)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	if runsShow != "" {
		r, err := st.GetRun(ctx, runsShow)
		if err != nil {
			return fmt.Errorf("load run %s: %w", runsShow, err)
		}

		out := struct {
			ID        string          `json:"id"`
			CreatedAt time.Time       `json:"created_at"`
			Params    json.RawMessage `json:"params,omitempty"`
			Cells     []dfm.Triple    `json:"cells"`
			Entries   []freq.Entry    `json:"entries"`
		}{r.ID, r.CreatedAt, json.RawMessage(r.Params), r.Cells, r.Entries}

		b, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return fmt.Errorf("encode run: %w", err)
		}
		fmt.Println(string(b))
		return nil
	}

	sums, err := st.ListRuns(ctx, runsLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if len(sums) == 0 {
		fmt.Println("No stored runs.")
		return nil
	}

	fmt.Printf("%-28s %-20s %8s %8s\n", "RUN", "CREATED", "CELLS", "ENTRIES")
	for _, s := range sums {
		fmt.Printf("%-28s %-20s %8d %8d\n",
			s.ID, s.CreatedAt.Format("2006-01-02 15:04:05"), s.NCells, s.NEntries)
	}
	return nil
}
