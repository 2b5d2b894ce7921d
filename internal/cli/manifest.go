// internal/cli/manifest.go
package greenview

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mwiater/greenview/internal/appconfig"
	"github.com/mwiater/greenview/internal/manifest"
)

// manifestCmd groups the manifest subcommands.
var manifestCmd = &cobra.Command{
	Use:   "manifest",
	Short: "Generate or maintain the file listing of the data directory",
}

// manifestGenerateCmd implements 'manifest generate'.
var manifestGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Scan the data directory once and write the manifest",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runManifestGenerate(cmd.OutOrStdout(), mustConfig())
	},
}

// manifestWatchCmd implements 'manifest watch'.
var manifestWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Regenerate the manifest on an interval until interrupted",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := mustConfig()
		if cmd.Flags().Changed("watch") {
			cfg.Watch, _ = cmd.Flags().GetBool("watch")
		}
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runManifestWatch(ctx, cmd.OutOrStdout(), cfg)
	},
}

func init() {
	manifestWatchCmd.Flags().Bool("watch", false, "also regenerate on file changes")
	manifestCmd.AddCommand(manifestGenerateCmd, manifestWatchCmd)
	rootCmd.AddCommand(manifestCmd)
}

func runManifestGenerate(out io.Writer, cfg appconfig.Config) error {
	files, err := manifest.Generate(cfg.DataDir, cfg.ManifestPath())
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Wrote %s (%d files)\n", cfg.ManifestPath(), len(files))
	return nil
}

func runManifestWatch(ctx context.Context, out io.Writer, cfg appconfig.Config) error {
	r := manifest.NewRefresher(cfg.DataDir, cfg.ManifestPath(), cfg.RefreshInterval(), cfg.Watch)
	r.OnRefresh = func(files []string) {
		fmt.Fprintf(out, "Wrote %s (%d files)\n", cfg.ManifestPath(), len(files))
	}
	fmt.Fprintf(out, "Refreshing %s every %s (watch=%v)\n", cfg.ManifestPath(), cfg.RefreshInterval(), cfg.Watch)
	if err := r.Start(ctx); err != nil {
		return err
	}
	<-ctx.Done()
	r.Stop()
	return nil
}
