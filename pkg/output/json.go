package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// JSONFormatter formats reports as indented JSON. Level fields encode as
// their tokens.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// jsonRecords is the non-verbose document: the run metadata is left out.
type jsonRecords struct {
	Summary Summary         `json:"summary"`
	Records []parser.Record `json:"records"`
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	switch {
	case f.opts.Quiet:
		return encoder.Encode(report.Summary)
	case f.opts.Verbose:
		return encoder.Encode(report)
	default:
		return encoder.Encode(jsonRecords{Summary: report.Summary, Records: report.Records})
	}
}
