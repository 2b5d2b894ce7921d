// internal/cli/summary.go
package greenview

import (
	"github.com/spf13/cobra"
)

// summaryCmd implements 'summary <view>', which prints the summary tables
// of every dataset in a view.
var summaryCmd = &cobra.Command{
	Use:   "summary <view>",
	Short: "Print the summary tables for a view",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runSummary(cmd.Context(), cmd.OutOrStdout(), mustConfig(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}
