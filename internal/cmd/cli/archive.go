package cli

import (
	"fmt"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/rzbill/dunfell/internal/archive"
	"github.com/rzbill/dunfell/internal/filter"
	"github.com/rzbill/dunfell/internal/runtime"
)

func (a *app) openRuntime() (*runtime.Runtime, error) {
	return runtime.Open(runtime.Options{Config: a.cfg, Logger: a.logger})
}

func newImportCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import FILE",
		Short: "Load a log and store its events as a named archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = archiveNameFor(args[0])
			}
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			meta, stats, err := rt.Import(cmd.Context(), args[0], name)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %s as %q: %d events (%d lines, %d ignored)\n",
				args[0], meta.Name, meta.Events, stats.Lines, stats.IgnoredLines)
			return nil
		},
	}
	cmd.Flags().String("name", "", "Archive name (default: file name without extensions)")
	return cmd
}

// archiveNameFor derives an archive name from a log path:
// /tmp/boot.log.zst -> boot.
func archiveNameFor(path string) string {
	base := filepath.Base(path)
	if i := strings.IndexByte(base, '.'); i > 0 {
		base = base[:i]
	}
	return base
}

func newArchiveCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{Use: "archive", Short: "Stored archive operations"}
	cmd.AddCommand(
		newArchiveListCommand(a),
		newArchiveShowCommand(a),
		newArchiveDeleteCommand(a),
	)
	return cmd
}

func newArchiveListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored archives",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			metas, err := rt.Archives()
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tEVENTS\tINITIAL\tCREATED")
			for _, m := range metas {
				created := time.UnixMilli(m.CreatedMs).UTC().Format(time.RFC3339)
				fmt.Fprintf(tw, "%s\t%d\t%d\t%s\n", m.Name, m.Events, m.InitialTimestamp, created)
			}
			return tw.Flush()
		},
	}
}

func newArchiveShowCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show NAME",
		Short: "Print the events of an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			start, _ := cmd.Flags().GetUint64("start")
			limit, _ := cmd.Flags().GetInt("limit")
			reverse, _ := cmd.Flags().GetBool("reverse")
			format, _ := cmd.Flags().GetString("format")
			expr, _ := cmd.Flags().GetString("filter")

			f, err := filter.Compile(expr)
			if err != nil {
				return err
			}
			w, err := newEventWriter(format, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			arc, err := rt.OpenArchive(args[0])
			if err != nil {
				return err
			}
			meta, err := arc.Meta()
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			items, next, err := arc.Read(archive.ReadOptions{Start: archive.TokenFromSeq(start), Limit: limit, Reverse: reverse})
			if err != nil {
				return err
			}
			reg := rt.Registry()
			for _, it := range items {
				ev := it.Event
				if e, ok := reg.Lookup(ev.Type); ok && e.Decode != nil {
					if decoded, err := e.Decode(ev.Type, ev.Timestamp, ev.ThreadID, ev.Raw); err == nil {
						ev = decoded
					}
				}
				if !f.Match(ev, meta.InitialTimestamp) {
					continue
				}
				if err := w.Write(ev, meta.InitialTimestamp); err != nil {
					return err
				}
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if !next.IsZero() {
				fmt.Fprintf(cmd.ErrOrStderr(), "more events: --start %d\n", next.Seq())
			}
			return nil
		},
	}
	cmd.Flags().Uint64("start", 0, "First entry sequence number (0 = beginning, or end with --reverse)")
	cmd.Flags().Int("limit", 100, "Maximum entries to read (0 = all)")
	cmd.Flags().Bool("reverse", false, "Read newest first")
	cmd.Flags().String("format", "text", "Output format: text|json")
	cmd.Flags().String("filter", "", "CEL expression applied to the entries read")
	return cmd
}

func newArchiveDeleteCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete NAME",
		Short: "Delete an archive",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := a.openRuntime()
			if err != nil {
				return err
			}
			defer rt.Close()
			arc, err := rt.OpenArchive(args[0])
			if err != nil {
				return err
			}
			if err := arc.Delete(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
			return nil
		},
	}
}
