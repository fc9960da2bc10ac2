package output

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// TextFormatter formats reports as HelixDebug-style text, one record per
// line.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(ctx, report, w)
}

// FormatRecord renders rec the way the HelixDebug writer emits it:
// [<timestamp>][<LEVEL>]: <message> | <file>:<line>
func FormatRecord(rec parser.Record) string {
	return fmt.Sprintf("[%s][%s]: %s | %s", rec.Timestamp, rec.Level.Label(), rec.Message, rec.SourceLocation())
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	_, err := fmt.Fprintf(w, "hxlog: %d entries shown, %d decoded, %d lines read (%s)\n",
		report.Summary.Shown,
		report.Summary.Matched,
		report.Summary.LinesRead,
		report.Metadata.Status)
	return err
}

func (f *TextFormatter) formatFull(ctx context.Context, report *Report, w io.Writer) error {
	for i, rec := range report.Records {
		// Large reports can take a while to write to a slow pipe.
		if i%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintln(w, FormatRecord(rec)); err != nil {
			return err
		}
	}

	if !f.opts.Verbose {
		return nil
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "File: %s (%s grammar)\n", report.Metadata.File, report.Metadata.Grammar)
	if report.Metadata.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", report.Metadata.RunID)
	}
	fmt.Fprintf(w, "Status: %s\n", report.Metadata.Status)
	fmt.Fprintf(w, "Summary: %d entries shown, %d decoded, %d lines read\n",
		report.Summary.Shown,
		report.Summary.Matched,
		report.Summary.LinesRead)
	fmt.Fprintf(w, "Filter: %s\n", report.Metadata.Filter)
	fmt.Fprintf(w, "Levels: %s\n", formatLevelCounts(report.Summary.ByLevel))
	fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))

	return nil
}

func formatLevelCounts(counts map[parser.Level]int) string {
	var parts []string
	for _, l := range parser.Levels {
		if n := counts[l]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", l, n))
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, " ")
}
