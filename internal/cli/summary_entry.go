package greenview

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/mwiater/greenview/internal/appconfig"
	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

var (
	titleText   = color.New(color.FgCyan, color.Bold).SprintFunc()
	equivText   = color.New(color.FgGreen).SprintFunc()
	missingText = color.New(color.Faint).SprintFunc()
	warnText    = color.New(color.FgYellow).SprintFunc()
)

func runSummary(ctx context.Context, out io.Writer, cfg appconfig.Config, view string) error {
	loader, err := loaderFor(cfg, view)
	if err != nil {
		return err
	}
	model, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", view, err)
	}
	printSummary(out, model)
	return nil
}

func printSummary(out io.Writer, model *views.Model) {
	fmt.Fprintf(out, "%s (policy: %s)\n", titleText(model.Title), model.Policy)
	if len(model.Datasets) == 0 {
		fmt.Fprintln(out, "no data")
	}
	for _, ds := range model.Datasets {
		fmt.Fprintf(out, "\n%s\n", titleText(ds.Key.String()))
		fmt.Fprintf(out, "CPU %.2f J | GPU %.2f J | RAM %.2f J | energy %.2f J | %.2f gCO2\n",
			ds.Totals.CPU, ds.Totals.GPU, ds.Totals.RAM, ds.Totals.Energy(), ds.Totals.CO2)
		fmt.Fprintln(out, equivText("≈ "+strings.Join(ds.Equivalents.Lines(), " | ")))

		for _, table := range ds.Summaries {
			fmt.Fprintf(out, "\n%s\n", titleText(table.Metric))
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintf(tw, "#\tPrompt\t%s\n", strings.Join(reshape.DisplayedMetrics, "\t"))
			for _, row := range table.Rows {
				cells := make([]string, len(row.Cells))
				for i, c := range row.Cells {
					cells[i] = c.Display
					if !c.Present {
						cells[i] = missingText(c.Display)
					}
				}
				fmt.Fprintf(tw, "%d\t%s\t%s\n", row.Index, row.Prompt, strings.Join(cells, "\t"))
			}
			_ = tw.Flush()
		}
		for _, st := range ds.SeriesTotals {
			fmt.Fprintln(out, st.String())
		}
		if ds.Dropped > 0 {
			fmt.Fprintln(out, warnText(fmt.Sprintf("%d rows skipped", ds.Dropped)))
		}
	}
	for _, d := range model.Diagnostics {
		fmt.Fprintln(out, warnText(fmt.Sprintf("unavailable: %s (%s)", d.Source, d.Error)))
	}
}
