package cli

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/infrastructure-observatory/freshness/internal/freshness"
)

var policiesCmd = &cobra.Command{
	Use:   "policies",
	Short: "List all decay policies",
	Run:   runPolicies,
}

func runPolicies(cmd *cobra.Command, args []string) {
	fmt.Println("Available Decay Policies")
	fmt.Println("========================")

	for _, p := range freshness.Policies() {
		fmt.Printf("\n%s\n", p.Topic)
		fmt.Printf("  Name:        %s\n", p.Name)
		fmt.Printf("  Decay rate:  %.4f per day\n", p.LambdaPerDay)
		fmt.Printf("  Floor:       %.1f%%\n", p.Floor*100)
		if hl := p.HalfLife(); !math.IsInf(hl, 1) {
			fmt.Printf("  Half-life:   %.1f days\n", hl)
		} else {
			fmt.Printf("  Half-life:   never decays\n")
		}
		fmt.Printf("  Description: %s\n", p.Description)
	}

	fmt.Println()
	fmt.Println("Usage: freshness calculate --topic <policy> ...")
}
