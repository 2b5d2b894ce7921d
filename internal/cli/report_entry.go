package greenview

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mwiater/greenview/internal/appconfig"
	"github.com/mwiater/greenview/internal/export"
	"github.com/mwiater/greenview/internal/logging"
	"github.com/mwiater/greenview/internal/report"
)

type reportOptions struct {
	View       string
	OutDir     string
	PNG        bool
	ExportPath string
	Format     string
}

func runReport(ctx context.Context, out io.Writer, cfg appconfig.Config, opts reportOptions) error {
	format := export.JSON
	if opts.ExportPath != "" {
		f, err := export.ParseFormat(opts.Format)
		if err != nil {
			return err
		}
		format = f
	}

	loader, err := loaderFor(cfg, opts.View)
	if err != nil {
		return err
	}
	model, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", opts.View, err)
	}

	dir := opts.OutDir
	if dir == "" {
		dir = cfg.ReportsPath()
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}

	page, err := report.HTML(model)
	if err != nil {
		return err
	}
	htmlPath := filepath.Join(dir, opts.View+".html")
	if err := os.WriteFile(htmlPath, page, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", htmlPath, err)
	}
	fmt.Fprintf(out, "Wrote %s\n", htmlPath)

	if opts.PNG {
		for i, ds := range model.Datasets {
			var buf bytes.Buffer
			if err := report.PNG(model.Title, ds, &buf); err != nil {
				return err
			}
			pngPath := filepath.Join(dir, fmt.Sprintf("%s-%d.png", opts.View, i))
			if err := os.WriteFile(pngPath, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", pngPath, err)
			}
			fmt.Fprintf(out, "Wrote %s\n", pngPath)
		}
	}

	if opts.ExportPath != "" {
		if err := writeExport(opts.ExportPath, model, format); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", opts.ExportPath)
	}

	for _, d := range model.Diagnostics {
		fmt.Fprintf(out, "Skipped %s: %s\n", d.Source, d.Error)
	}
	logging.LogEvent("[REPORT] view=%s datasets=%d dir=%s", opts.View, len(model.Datasets), dir)
	return nil
}
