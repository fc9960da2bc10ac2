package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/hxlog/internal/logging"
	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/output"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	Output  string
	Levels  []string
	Search  string
	Verbose bool
	Quiet   bool
	Sync    bool
}

// NewParseCommand creates the parse command.
func NewParseCommand(s *Settings) *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse <log-file>",
		Short: "Decode a log file and print its records",
		Long: `Decode a HelixDebug log file and print the records that pass the filter.

The file is read by a background run that reports progress on stderr.
Interrupting the command stops the run; the records decoded so far are
still printed. Files ending in .gz, .zst or .zstd are decompressed.

Exit codes:
  0 - File parsed completely
  1 - Parse interrupted
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, s, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringSliceVarP(&opts.Levels, "level", "l", nil, "Only show these levels (can be repeated)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Only show records whose message contains this text")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Append the summary and run details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no records")
	cmd.Flags().BoolVar(&opts.Sync, "sync", false, "Parse on the calling goroutine without progress reports")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, s *Settings, opts *ParseOptions) error {
	logFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	levels, err := filter.ParseLevels(opts.Levels)
	if err != nil {
		return fmt.Errorf("invalid --level: %w", err)
	}
	f := filter.Filter{Levels: levels, Search: opts.Search}

	formatter, err := output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	logger := logging.Discard()
	if !opts.Quiet {
		logger = s.Logger(cmd.ErrOrStderr())
	}
	ctrl := s.Controller(logger)

	started := time.Now()
	var records []parser.Record
	var st parser.Status

	if opts.Sync {
		records, st = ctrl.ParseAllStatus(logFile)
	} else {
		records, st = runInBackground(ctx, ctrl, logFile, progressPrinter(cmd.ErrOrStderr(), opts.Quiet))
	}
	if st.Kind == parser.StatusFailed {
		return fmt.Errorf("parse failed: %w", st.Err)
	}

	report := output.NewReport(records, st, f, output.Metadata{
		File:      logFile,
		Grammar:   s.Config.ParsedGrammar().String(),
		StartedAt: started,
		Duration:  time.Since(started),
	})

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	if !report.Complete() {
		ExitCode = 1
	}
	return nil
}

// runInBackground parses path with a controller run and stops the run on
// SIGINT or SIGTERM. It returns every record decoded before the run ended.
func runInBackground(ctx context.Context, ctrl *parser.Controller, path string, progress parser.ProgressFunc) ([]parser.Record, parser.Status) {
	sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	store := parser.NewStore()
	ctrl.Start(context.Background(), path, store, progress)

	done := make(chan struct{})
	go func() {
		select {
		case <-sigCtx.Done():
			ctrl.Stop()
		case <-done:
		}
	}()

	st := ctrl.Wait()
	close(done)
	return store.Snapshot(), st
}

// progressPrinter writes a status line to w each time the percentage
// changes.
func progressPrinter(w io.Writer, quiet bool) parser.ProgressFunc {
	if quiet {
		return nil
	}
	last := -1
	return func(st parser.Status) {
		if !st.Terminal() && st.Percent == last {
			return
		}
		last = st.Percent
		fmt.Fprintln(w, st.String())
	}
}
