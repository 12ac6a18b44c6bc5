package cli

import (
	"fmt"
	goruntime "runtime"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rzbill/dunfell/internal/parser"
	logpkg "github.com/rzbill/dunfell/pkg/log"
)

type checkResult struct {
	path  string
	stats parser.Stats
	err   error
	took  time.Duration
}

func newCheckCommand(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check FILE...",
		Short: "Validate logs and print line statistics",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, _ := cmd.Flags().GetInt("jobs")
			if jobs < 1 {
				jobs = 1
			}
			results := make([]checkResult, len(args))
			g, ctx := errgroup.WithContext(cmd.Context())
			g.SetLimit(jobs)
			for i, path := range args {
				g.Go(func() error {
					start := time.Now()
					p := a.newParser()
					err := p.LoadFromFileContext(ctx, path)
					results[i] = checkResult{path: path, stats: p.Stats(), err: err, took: time.Since(start)}
					return nil
				})
			}
			_ = g.Wait()

			out := cmd.OutOrStdout()
			failed := 0
			for _, r := range results {
				if r.err != nil {
					failed++
					fmt.Fprintf(out, "FAIL %s: %v\n", r.path, r.err)
					continue
				}
				fmt.Fprintf(out, "ok   %s lines=%d comments=%d event_lines=%d events=%d ignored=%d\n",
					r.path, r.stats.Lines, r.stats.CommentLines, r.stats.EventLines, r.stats.Events, r.stats.IgnoredLines)
				a.logger.Debug("checked", logpkg.Str("path", r.path), logpkg.Duration("took", r.took))
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d logs failed validation", failed, len(args))
			}
			return nil
		},
	}
	cmd.Flags().IntP("jobs", "j", goruntime.NumCPU(), "Number of logs validated concurrently")
	return cmd
}
