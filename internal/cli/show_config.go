// internal/cli/show_config.go
package greenview

import (
	"github.com/spf13/cobra"
)

// showConfigCmd implements 'show config', which prints the merged
// configuration after flags, file and defaults are applied.
var showConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show config settings",
	Long:  `Show config settings ensuring that the JSON configs are loaded properly and overridden by flags accordingly.`,
	Run: func(cmd *cobra.Command, args []string) {
		raw, _ := cmd.Flags().GetBool("raw")
		runShowConfig(cmd.OutOrStdout(), raw)
	},
}

func init() {
	showConfigCmd.Flags().Bool("raw", false, "pretty-print the whole configuration struct")
	showCmd.AddCommand(showConfigCmd)
}
