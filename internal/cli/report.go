// internal/cli/report.go
package greenview

import (
	"github.com/spf13/cobra"
)

// reportCmd implements 'report <view>', which writes the HTML report and,
// on request, PNG snapshots and an export of the model.
var reportCmd = &cobra.Command{
	Use:   "report <view>",
	Short: "Write the HTML report for a view",
	Long: `Load a view once and write <reportsDir>/<view>.html. With --png a
snapshot per dataset is written next to it; with --export the model is also
written in the chosen --format (json, yaml or csv).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := reportOptions{View: args[0]}
		opts.OutDir, _ = cmd.Flags().GetString("out")
		opts.PNG, _ = cmd.Flags().GetBool("png")
		opts.ExportPath, _ = cmd.Flags().GetString("export")
		opts.Format, _ = cmd.Flags().GetString("format")
		return runReport(cmd.Context(), cmd.OutOrStdout(), mustConfig(), opts)
	},
}

func init() {
	reportCmd.Flags().String("out", "", "directory to write into (defaults to reportsDir)")
	reportCmd.Flags().Bool("png", false, "also write a PNG snapshot per dataset")
	reportCmd.Flags().String("export", "", "also export the model to this file")
	reportCmd.Flags().String("format", "json", "export format: json, yaml or csv")
	rootCmd.AddCommand(reportCmd)
}
