package cli

import (
	"iter"

	"github.com/spf13/cobra"

	"github.com/rzbill/dunfell/internal/event"
	"github.com/rzbill/dunfell/internal/filter"
	"github.com/rzbill/dunfell/internal/index"
)

func newEventsCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events FILE",
		Short: "Print the events of a log",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			expr, _ := cmd.Flags().GetString("filter")
			limit, _ := cmd.Flags().GetInt("limit")
			format, _ := cmd.Flags().GetString("format")

			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}
			w, err := newEventWriter(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			p, err := a.load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			seq := p.EventSequence()

			var events iter.Seq[event.Event]
			if cmd.Flags().Changed("thread") {
				tid, _ := cmd.Flags().GetUint64("thread")
				events = index.Build(seq).Events(tid)
			} else {
				events = func(yield func(event.Event) bool) {
					for _, ev := range seq.All() {
						if !yield(ev) {
							return
						}
					}
				}
			}
			return writeEvents(w, events, f, seq.InitialTimestamp(), limit)
		},
	}
	cmd.Flags().String("filter", "", "CEL expression over type, timestamp, thread_id, offset, raw, params")
	cmd.Flags().Uint64("thread", 0, "Only print events of this thread id")
	cmd.Flags().Int("limit", 0, "Stop after N events (0 = all)")
	cmd.Flags().String("format", "text", "Output format: text|json")
	return cmd
}

func writeEvents(w eventWriter, events iter.Seq[event.Event], f *filter.Filter, initial event.Timestamp, limit int) error {
	n := 0
	for ev := range events {
		if limit > 0 && n >= limit {
			break
		}
		if !f.Match(ev, initial) {
			continue
		}
		if err := w.Write(ev, initial); err != nil {
			return err
		}
		n++
	}
	return w.Flush()
}
