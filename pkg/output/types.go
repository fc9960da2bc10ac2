// Package output provides formatting and output generation for parse results.
package output

import (
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Report is the complete output of one parse.
type Report struct {
	// Summary provides aggregate statistics.
	Summary Summary `json:"summary"`

	// Records are the decoded records that passed the filter, in file order.
	Records []parser.Record `json:"records"`

	// Metadata provides context about the run.
	Metadata Metadata `json:"metadata"`
}

// Summary provides aggregate statistics.
type Summary struct {
	// LinesRead is the number of input lines read, decoded or not.
	LinesRead int `json:"lines_read"`

	// Matched is the number of decoded records.
	Matched int `json:"matched"`

	// Shown is the number of records that passed the filter.
	Shown int `json:"shown"`

	// ByLevel counts decoded records per level, before filtering.
	ByLevel map[parser.Level]int `json:"by_level"`
}

// Metadata provides context about the parse run.
type Metadata struct {
	File    string `json:"file"`
	Grammar string `json:"grammar"`

	// RunID is empty for synchronous parses.
	RunID string `json:"run_id,omitempty"`

	// Status is the terminal status kind of the run.
	Status string `json:"status"`

	// Filter describes the applied filter.
	Filter string `json:"filter"`

	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
}

// NewReport builds a report from the records of a finished run. records is
// every decoded record; f selects the ones included in the report.
func NewReport(records []parser.Record, st parser.Status, f filter.Filter, meta Metadata) *Report {
	shown := f.Apply(records)

	meta.Status = st.Kind.String()
	meta.Filter = f.String()
	if meta.RunID == "" && st.RunID != uuid.Nil {
		meta.RunID = st.RunID.String()
	}

	return &Report{
		Records:  shown,
		Metadata: meta,
		Summary: Summary{
			LinesRead: st.Lines,
			Matched:   len(records),
			Shown:     len(shown),
			ByLevel:   filter.CountByLevel(records),
		},
	}
}

// Complete reports whether the run read the whole file.
func (r *Report) Complete() bool {
	return r.Metadata.Status == parser.StatusCompleted.String()
}
