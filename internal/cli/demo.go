package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/infrastructure-observatory/freshness/internal/freshness"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run a quick demonstration",
	RunE:  runDemo,
}

func runDemo(cmd *cobra.Command, args []string) error {
	fmt.Println("Freshness Demo")
	fmt.Println("==============")

	now := time.Now().UTC()
	examples := []struct {
		ageDays     int
		confidence  float64
		topic       string
		description string
	}{
		{7, 0.95, "ai_training", "Week-old AI training data"},
		{180, 0.90, "ai_training", "6-month-old AI training data"},
		{730, 0.85, "ai_training", "2-year-old AI training data"},
		{7, 0.90, "news", "Week-old news"},
		{365, 0.90, "news", "1-year-old news"},
		{2000, 0.95, "history", "Historical fact"},
	}

	for _, ex := range examples {
		captured := now.AddDate(0, 0, -ex.ageDays)
		result, err := freshness.Calculate(ex.confidence, captured, ex.topic, freshness.CalcOpts{Reference: now})
		if err != nil {
			return err
		}

		fmt.Printf("\n%s:\n", ex.description)
		fmt.Printf("  Age:      %.0f days\n", result.AgeDays)
		fmt.Printf("  Topic:    %s\n", ex.topic)
		fmt.Printf("  Initial:  %.1f%%\n", ex.confidence*100)
		fmt.Printf("  Current:  %.1f%%\n", result.CurrentConfidence*100)
		fmt.Printf("  Status:   %s\n", statusLabel(result.CurrentConfidence))
	}

	fmt.Println()
	fmt.Println("Try: freshness check <your_dataset.json>")
	return nil
}
