// internal/cli/rankings.go
package greenview

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwiater/greenview/internal/appconfig"
	"github.com/mwiater/greenview/internal/reshape"
	"github.com/mwiater/greenview/internal/views"
)

// rankingsCmd implements 'rankings', which orders the datasets of a
// multi-source view from lowest to highest emissions.
var rankingsCmd = &cobra.Command{
	Use:   "rankings",
	Short: "Rank models by carbon emissions",
	RunE: func(cmd *cobra.Command, args []string) error {
		view, _ := cmd.Flags().GetString("view")
		return runRankings(cmd.Context(), cmd.OutOrStdout(), mustConfig(), view)
	},
}

func init() {
	rankingsCmd.Flags().String("view", views.History, "view whose datasets are ranked")
	rootCmd.AddCommand(rankingsCmd)
}

func runRankings(ctx context.Context, out io.Writer, cfg appconfig.Config, view string) error {
	loader, err := loaderFor(cfg, view)
	if err != nil {
		return err
	}
	model, err := loader.Load(ctx)
	if err != nil {
		return fmt.Errorf("load %s: %w", view, err)
	}

	ranks := model.Rankings
	if ranks == nil {
		ranks = reshape.RankByCO2(model.Datasets)
	}
	fmt.Fprintln(out, titleText(model.Title+": ranking by emissions"))
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tDATASET\tCO2 (g)\tENERGY (J)")
	for _, r := range ranks {
		fmt.Fprintf(tw, "%d\t%s\t%.2f\t%.2f\n", r.Rank, r.Key, r.CO2, r.Energy)
	}
	return tw.Flush()
}
