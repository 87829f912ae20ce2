package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/infrastructure-observatory/freshness/internal/freshness"
)

var (
	calcConfidence float64
	calcTimestamp  string
	calcTopic      string
	calcLambda     float64
	calcFloor      float64
	calcReference  string
)

var calculateCmd = &cobra.Command{
	Use:   "calculate",
	Short: "Calculate the freshness score of a single data point",
	RunE:  runCalculate,
}

func init() {
	calculateCmd.Flags().Float64VarP(&calcConfidence, "confidence", "c", freshness.DefaultConfidence, "Initial confidence (0.0-1.0)")
	calculateCmd.Flags().StringVarP(&calcTimestamp, "timestamp", "t", "", "Capture timestamp (ISO format, e.g. 2025-01-01)")
	calculateCmd.Flags().StringVarP(&calcTopic, "topic", "p", "ai_training", "Topic type (news, science, code, medical, ai_training, ...)")
	calculateCmd.Flags().Float64Var(&calcLambda, "lambda", 0, "Override decay rate per day")
	calculateCmd.Flags().Float64Var(&calcFloor, "floor", 0, "Override minimum confidence")
	calculateCmd.Flags().StringVar(&calcReference, "reference", "", "Reference instant instead of now (for replay)")
	calculateCmd.MarkFlagRequired("timestamp")
}

func runCalculate(cmd *cobra.Command, args []string) error {
	opts := freshness.CalcOpts{}
	if cmd.Flags().Changed("lambda") {
		opts.CustomLambda = &calcLambda
	}
	if cmd.Flags().Changed("floor") {
		opts.CustomFloor = &calcFloor
	}
	ref, err := parseReference(calcReference)
	if err != nil {
		return fmt.Errorf("parse reference: %w", err)
	}
	opts.Reference = ref

	result, err := freshness.CalculateAt(calcConfidence, calcTimestamp, calcTopic, opts)
	if err != nil {
		return err
	}

	fmt.Println("Freshness Analysis")
	fmt.Println("==================")
	fmt.Printf("Initial confidence: %.1f%%\n", calcConfidence*100)
	fmt.Printf("Capture timestamp:  %s\n", calcTimestamp)
	fmt.Printf("Age:                %.1f days\n", result.AgeDays)
	fmt.Printf("Topic type:         %s\n", calcTopic)
	fmt.Printf("Decay rate:         %.4f per day\n", result.LambdaPerDay)
	fmt.Printf("Floor:              %.1f%%\n", result.Floor*100)
	fmt.Println("==================")
	fmt.Printf("Current confidence: %.1f%%\n", result.CurrentConfidence*100)
	fmt.Printf("Status:             %s\n", statusLabel(result.CurrentConfidence))

	return nil
}

// statusLabel bands a confidence value into a human status.
func statusLabel(confidence float64) string {
	switch {
	case confidence < 0.3:
		return "STALE (< 30% confidence)"
	case confidence < 0.5:
		return "AGING (< 50% confidence)"
	case confidence < 0.7:
		return "OK (50-70% confidence)"
	default:
		return "FRESH (> 70% confidence)"
	}
}

// parseReference is shared by check and serve.
func parseReference(raw string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, nil
	}
	return freshness.ParseTimestamp(raw)
}
