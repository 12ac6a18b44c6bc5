package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rzbill/dunfell/internal/parser"
)

func newTypesCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the event types understood by the parser",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg := a.cfg.Registry()
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "log format %s\n", parser.SupportedVersion)
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "TYPE\tPARAMS\tDECODED")
			for _, typ := range reg.Types() {
				e, _ := reg.Lookup(typ)
				fmt.Fprintf(tw, "%s\t%d\t%v\n", typ, e.NParams, e.Decode != nil)
			}
			return tw.Flush()
		},
	}
}
