// internal/cli/serve.go
package greenview

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/mwiater/greenview/internal/appconfig"
	"github.com/mwiater/greenview/internal/logging"
	"github.com/mwiater/greenview/internal/manifest"
	"github.com/mwiater/greenview/internal/server"
	"github.com/mwiater/greenview/internal/telemetry"
)

// serveCmd implements 'serve', which runs the HTTP server and, for a local
// data directory, the manifest refresher.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve reports over HTTP and keep the manifest fresh",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		cfg := mustConfig()
		if cmd.Flags().Changed("listen") {
			cfg.Listen, _ = cmd.Flags().GetString("listen")
		}
		if cmd.Flags().Changed("watch") {
			cfg.Watch, _ = cmd.Flags().GetBool("watch")
		}
		return runServe(ctx, cfg)
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "address to listen on (overrides config)")
	serveCmd.Flags().Bool("watch", false, "regenerate the manifest on file changes as well as on the interval")
	rootCmd.AddCommand(serveCmd)
}

func runServe(ctx context.Context, cfg appconfig.Config) error {
	rec := telemetry.New()
	local := strings.TrimSpace(cfg.DataURL) == ""
	opts := server.Options{
		Views:        newViewSet(cfg, rec),
		Fetcher:      newFetcher(cfg),
		ManifestName: cfg.ManifestFileName(),
		Recorder:     rec,
		RateLimit:    cfg.RateLimit,
		RateBurst:    cfg.RateBurst,
		CORSOrigins:  cfg.CORSOrigins,
	}
	if local {
		opts.DataDir = cfg.DataDir
	}
	srv := server.New(opts)

	g, ctx := errgroup.WithContext(ctx)
	if local {
		refresher := manifest.NewRefresher(cfg.DataDir, cfg.ManifestPath(), cfg.RefreshInterval(), cfg.Watch)
		refresher.Recorder = rec
		if err := refresher.Start(ctx); err != nil {
			return fmt.Errorf("start manifest refresher: %w", err)
		}
		g.Go(func() error {
			<-ctx.Done()
			refresher.Stop()
			return nil
		})
	} else {
		logging.LogEvent("[SERVER] remote data at %s; manifest refresher disabled", cfg.DataURL)
	}
	g.Go(func() error {
		return srv.Run(ctx, cfg.Listen)
	})
	return g.Wait()
}
