package parser

import (
	"fmt"

	"github.com/google/uuid"
)

// StatusKind distinguishes progress reports from the terminal outcomes of
// a run.
type StatusKind int

const (
	StatusProgress StatusKind = iota
	StatusCompleted
	StatusCancelled
	StatusFailed
)

// String returns a lowercase name for the kind.
func (k StatusKind) String() string {
	switch k {
	case StatusProgress:
		return "progress"
	case StatusCompleted:
		return "completed"
	case StatusCancelled:
		return "cancelled"
	case StatusFailed:
		return "failed"
	default:
		return fmt.Sprintf("StatusKind(%d)", int(k))
	}
}

// MarshalText encodes the kind name.
func (k StatusKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Status is a progress report or the terminal outcome of a run.
type Status struct {
	RunID uuid.UUID  `json:"run_id"`
	Kind  StatusKind `json:"kind"`

	// Percent is the share of the file read so far, 0..100. It never
	// decreases within a run and is 100 on completion.
	Percent int `json:"percent"`

	// Lines counts input lines read, decoded or not.
	Lines int `json:"lines"`

	// Matched counts decoded records.
	Matched int `json:"matched"`

	// Err is set on StatusFailed.
	Err error `json:"-"`
}

// Terminal reports whether the status ends a run.
func (s Status) Terminal() bool {
	return s.Kind != StatusProgress
}

// String renders the status line shown to users.
func (s Status) String() string {
	switch s.Kind {
	case StatusProgress:
		return fmt.Sprintf("Parsing... %d%% (%d lines, %d entries)", s.Percent, s.Lines, s.Matched)
	case StatusCompleted:
		return fmt.Sprintf("Completed: %d entries (%d lines)", s.Matched, s.Lines)
	case StatusCancelled:
		return "Cancelled"
	case StatusFailed:
		if s.Err == nil {
			return "Failed"
		}
		return "Failed: " + s.Err.Error()
	default:
		return s.Kind.String()
	}
}

// ProgressFunc receives status reports from the worker goroutine of a run.
// It is called from a different goroutine than the one that started the
// run; implementations must synchronize whatever they share with readers.
// It must not call Controller.Stop or Controller.Start.
type ProgressFunc func(Status)

// Sink receives decoded batches in file order. Append is called from the
// worker goroutine, one batch at a time.
type Sink interface {
	Append(records []Record)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(records []Record)

// Append calls f(records).
func (f SinkFunc) Append(records []Record) {
	f(records)
}
