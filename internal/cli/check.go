package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/infrastructure-observatory/freshness/internal/config"
	"github.com/infrastructure-observatory/freshness/internal/dataset"
	"github.com/infrastructure-observatory/freshness/internal/freshness"
	"github.com/infrastructure-observatory/freshness/internal/store"
)

var (
	checkThreshold float64
	checkTopic     string
	checkVerbose   bool
	checkMaxAlerts int
	checkOutput    string
	checkSave      bool
	checkReference string
)

var checkCmd = &cobra.Command{
	Use:   "check [dataset]",
	Short: "Check a dataset file for stale entries",
	Long: "Check a JSON or JSONL dataset file for entries whose decayed confidence\n" +
		"has fallen below the threshold. Exits non-zero when stale entries are\n" +
		"found, so it can gate CI pipelines.",
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	defaults := config.Default().Check
	checkCmd.Flags().Float64VarP(&checkThreshold, "threshold", "T", defaults.Threshold, "Confidence threshold (0.0-1.0)")
	checkCmd.Flags().StringVarP(&checkTopic, "topic", "p", defaults.Topic, "Topic type")
	checkCmd.Flags().BoolVarP(&checkVerbose, "verbose", "v", false, "Show detailed alerts for stale entries")
	checkCmd.Flags().IntVar(&checkMaxAlerts, "max-alerts", 10, "Maximum number of alerts to display")
	checkCmd.Flags().StringVarP(&checkOutput, "output", "o", "", "Export the full report to a JSON file")
	checkCmd.Flags().BoolVar(&checkSave, "save", false, "Record the report in the local history database")
	checkCmd.Flags().StringVar(&checkReference, "reference", "", "Reference instant instead of now (for replay)")
}

func runCheck(cmd *cobra.Command, args []string) error {
	path := args[0]

	records, err := dataset.Load(path)
	if err != nil {
		return err
	}

	ref, err := parseReference(checkReference)
	if err != nil {
		return fmt.Errorf("parse reference: %w", err)
	}

	report, err := freshness.BatchCheck(records, checkTopic, freshness.BatchOpts{
		Threshold: checkThreshold,
		Reference: ref,
	})
	if err != nil {
		return err
	}

	fmt.Println(report.Summary)

	if checkVerbose && len(report.Alerts) > 0 {
		fmt.Println()
		fmt.Println("STALE ENTRIES:")
		shown := report.Alerts
		if len(shown) > checkMaxAlerts {
			shown = shown[:checkMaxAlerts]
		}
		for _, a := range shown {
			fmt.Printf("\nEntry #%d:\n", a.Index)
			fmt.Printf("  Timestamp:  %s\n", a.Timestamp)
			fmt.Printf("  Age:        %.1f days\n", a.AgeDays)
			fmt.Printf("  Confidence: %.1f%%\n", a.Confidence*100)
			fmt.Printf("  Reason:     %s\n", a.Reason)
		}
		if remaining := len(report.Alerts) - checkMaxAlerts; remaining > 0 {
			fmt.Printf("\n... and %d more stale entries\n", remaining)
		}
	}

	if checkOutput != "" {
		data, err := json.MarshalIndent(report, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		if err := os.WriteFile(checkOutput, data, 0644); err != nil {
			return fmt.Errorf("write report: %w", err)
		}
		fmt.Printf("\nResults exported to %s\n", checkOutput)
	}

	if checkSave {
		db, err := openDB()
		if err != nil {
			return fmt.Errorf("open db: %w", err)
		}
		defer db.Close()

		id, err := db.SaveReport(path, report)
		if err != nil {
			return fmt.Errorf("save report: %w", err)
		}
		fmt.Printf("\nReport saved as %s\n", id)
	}

	// Non-zero exit when stale entries exist, so CI can gate on it.
	if report.StaleEntries > 0 {
		return fmt.Errorf("%d stale entries found", report.StaleEntries)
	}
	return nil
}

// openDB is a helper that opens the database for CLI commands.
func openDB() (*store.DB, error) {
	dbPath := os.Getenv("FRESHNESS_DB")
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
