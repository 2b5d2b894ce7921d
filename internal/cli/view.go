// internal/cli/view.go
package greenview

import (
	"github.com/spf13/cobra"

	"github.com/mwiater/greenview/internal/logging"
	"github.com/mwiater/greenview/internal/tui"
)

// viewCmd implements 'view <view>', the interactive terminal viewer.
var viewCmd = &cobra.Command{
	Use:   "view <view>",
	Short: "Browse a view in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustConfig()
		loader, err := loaderFor(cfg, args[0])
		if err != nil {
			return err
		}
		// Keep log lines from tearing the alt screen.
		if err := logging.InitFileOnly(cfg.LogFilePath()); err != nil {
			return err
		}
		return tui.Run(cmd.Context(), loader, cfg.PollInterval())
	},
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
