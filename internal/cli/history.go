package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

var historyLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List saved dataset check reports",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "Maximum number of reports to show")
}

func runHistory(cmd *cobra.Command, args []string) error {
	db, err := openDB()
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	rows, err := db.ListReports(historyLimit)
	if err != nil {
		return fmt.Errorf("list reports: %w", err)
	}

	if len(rows) == 0 {
		fmt.Println("No saved reports. Run `freshness check <dataset> --save` first.")
		return nil
	}

	for _, r := range rows {
		when := time.UnixMilli(r.CreatedAt).Format("2006-01-02 15:04")
		fmt.Printf("%s  %s\n", when, r.ID)
		fmt.Printf("  source: %s  topic: %s  threshold: %.0f%%\n", r.Source, r.Topic, r.Threshold*100)
		fmt.Printf("  entries: %d  stale: %d  skipped: %d  avg confidence: %.1f%%\n",
			r.TotalEntries, r.StaleEntries, r.SkippedEntries, r.AverageConfidence*100)
		fmt.Println()
	}

	return nil
}
