package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/rzbill/dunfell/internal/index"
)

func newThreadsCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "threads FILE",
		Short: "Summarize events per thread",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			idx := index.Build(p.EventSequence())
			out := cmd.OutOrStdout()
			if idx.Len() == 0 {
				fmt.Fprintf(out, "no decoded events (%d event lines ignored)\n", p.Stats().IgnoredLines)
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "THREAD\tEVENTS\tFIRST\tLAST\tSPAN")
			for _, s := range idx.Summaries() {
				fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\n", s.ThreadID, s.Events, s.First, s.Last, s.Last-s.First)
			}
			if err := tw.Flush(); err != nil {
				return err
			}
			if b, ok := idx.Busiest(); ok {
				fmt.Fprintf(out, "busiest thread: %d (%d events)\n", b.ThreadID, b.Events)
			}
			return nil
		},
	}
}
