// internal/cli/list_views.go
package greenview

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mwiater/greenview/internal/views"
)

// viewsCmd implements 'list views'.
var viewsCmd = &cobra.Command{
	Use:   "views",
	Short: "List the report views and their match policies",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListViews(cmd.OutOrStdout(), newRegistry(mustConfig()))
	},
}

func init() {
	listCmd.AddCommand(viewsCmd)
}

func runListViews(out io.Writer, reg *views.Registry) error {
	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tTITLE\tPOLICY\tCHART\tDESCRIPTION")
	for _, d := range reg.All() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", d.Name, d.Title, d.Policy, d.Chart, d.Description)
	}
	return tw.Flush()
}
