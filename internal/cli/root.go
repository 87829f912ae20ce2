package cli

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "freshness",
	Short: "Detect stale data using temporal decay modeling",
	Long: "Freshness scores how much confidence remains in a data record as it ages,\n" +
		"using per-topic exponential decay policies, and flags dataset entries that\n" +
		"have decayed below a confidence threshold.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(calculateCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(policiesCmd)
	rootCmd.AddCommand(demoCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(serveCmd)
}
