package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/hxlog/internal/logging"
	"github.com/ccollicutt/hxlog/internal/tui"
	"github.com/ccollicutt/hxlog/pkg/config"
	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

// ViewOptions holds command-line options for the view command.
type ViewOptions struct {
	Levels []string
	Search string
}

// NewViewCommand creates the view command.
func NewViewCommand(s *Settings) *cobra.Command {
	opts := &ViewOptions{}

	cmd := &cobra.Command{
		Use:   "view [log-file]",
		Short: "Browse a log file in the terminal",
		Long: `Open a log file in the interactive viewer.

Without an argument the viewer reopens the file of the previous session,
or log.txt when that file is gone. Records appear while the file is
still being read.

Keys:
  o        open another file
  /        search messages
  1-4      toggle DEBUG, INFO, WARN, ERROR
  y        copy the filtered records to the clipboard
  q, esc   quit

Diagnostics are written to the log file named by --log-file because the
viewer owns the terminal.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd, args, s, opts)
		},
	}

	cmd.Flags().StringSliceVarP(&opts.Levels, "level", "l", nil, "Initially show only these levels (can be repeated)")
	cmd.Flags().StringVarP(&opts.Search, "search", "s", "", "Initial search text")

	return cmd
}

func runView(cmd *cobra.Command, args []string, s *Settings, opts *ViewOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	f, err := viewFilter(s.Config, cmd, opts)
	if err != nil {
		return err
	}

	logFile, err := logging.OpenFile(s.Config.Logging.File)
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()
	logger := s.Logger(logFile)

	var path string
	if len(args) == 1 {
		path = args[0]
	} else {
		path = loadState(s.StatePath, logger).StartFile()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = logging.NewContext(ctx, logger)

	logger.Info("viewer starting", "file", path, "filter", f.String())

	return tui.Run(ctx, tui.Config{
		Controller: s.Controller(logger),
		Store:      parser.NewStore(),
		Path:       path,
		Filter:     f,
		OnOpen:     rememberFile(s.StatePath),
	})
}

// viewFilter combines the configured initial filter with the flags. Flags
// given on the command line replace the configured values.
func viewFilter(cfg *config.Config, cmd *cobra.Command, opts *ViewOptions) (filter.Filter, error) {
	f := filter.Filter{Levels: cfg.ViewLevels(), Search: cfg.View.Search}

	if cmd.Flags().Changed("level") {
		levels, err := filter.ParseLevels(opts.Levels)
		if err != nil {
			return filter.Filter{}, fmt.Errorf("invalid --level: %w", err)
		}
		f.Levels = levels
	}
	if cmd.Flags().Changed("search") {
		f.Search = opts.Search
	}
	return f, nil
}

func loadState(path string, logger *slog.Logger) *config.State {
	if path == "" {
		return nil
	}
	st, err := config.LoadState(path)
	if err != nil {
		logger.Warn("ignoring session state", "path", path, "error", err)
		return nil
	}
	return st
}

// rememberFile returns an OnOpen callback that records the opened file as
// the start file of the next session.
func rememberFile(statePath string) func(string) error {
	if statePath == "" {
		return nil
	}
	return func(path string) error {
		if abs, err := filepath.Abs(path); err == nil {
			path = abs
		}
		return config.SaveState(statePath, &config.State{LastFile: path})
	}
}
