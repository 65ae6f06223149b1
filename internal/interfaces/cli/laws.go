package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gemmology-dev/crystal-api/internal/domain/twin"
)

func newLawsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "laws",
		Short: "Print the twin-law table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 4, 2, ' ', 0)
			fmt.Fprintln(w, "LAW\tTYPE\tRENDER\tAXIS\tANGLE\tEXAMPLES")
			for _, law := range twin.Laws() {
				fmt.Fprintf(w, "%s\t%s\t%s\t[%g %g %g]\t%.4g°\t%s\n",
					law.Name, law.Type, law.RenderMode,
					law.Axis.X, law.Axis.Y, law.Axis.Z,
					law.AngleDeg, strings.Join(law.Examples, ", "))
			}
			return w.Flush()
		},
	}
}
