package output

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

func TestNewTextFormatter(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewTextFormatter() returned nil")
	}
	if f.Name() != "text" {
		t.Errorf("Name() = %q, want %q", f.Name(), "text")
	}
}

func TestFormatRecord(t *testing.T) {
	rec := parser.Record{
		Timestamp:      "15:21:49.123",
		Level:          parser.LevelInfo,
		Message:        "Engine initialized",
		SourceFile:     "Engine.cpp",
		SourceFunction: "init",
		SourceLine:     42,
	}
	want := "[15:21:49.123][  INFO]: Engine initialized | Engine.cpp:42"
	if got := FormatRecord(rec); got != want {
		t.Errorf("FormatRecord() = %q, want %q", got, want)
	}
}

func TestTextFormatter_Format_Empty(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := NewReport(nil, parser.Status{Kind: parser.StatusCompleted}, filter.Filter{}, Metadata{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("Format() wrote %q for an empty report", buf.String())
	}
}

func TestTextFormatter_Format_Records(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport(filter.Filter{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("Format() wrote %d lines, want 3:\n%s", len(lines), buf.String())
	}
	if lines[2] != "[10:00:02.000][ ERROR]: disk full | Store.cpp:88" {
		t.Errorf("line 3 = %q", lines[2])
	}
	if strings.Contains(buf.String(), "Summary") {
		t.Error("non-verbose output should not include the summary")
	}
}

func TestTextFormatter_Format_Verbose(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Verbose: true})
	report := createTestReport(filter.Filter{Levels: []parser.Level{parser.LevelError}})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"Summary: 1 entries shown, 3 decoded, 4 lines read",
		"Status: completed",
		"Filter: levels=ERROR",
		"Levels: INFO=1 WARN=1 ERROR=1",
		"File: app.log (bracket grammar)",
		"Run: ",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("output missing %q:\n%s", want, output)
		}
	}
}

func TestTextFormatter_Format_Quiet(t *testing.T) {
	f := NewTextFormatter(FormatOptions{Quiet: true})
	report := createTestReport(filter.Filter{Search: "disk"})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := "hxlog: 1 entries shown, 3 decoded, 4 lines read (completed)\n"
	if buf.String() != want {
		t.Errorf("Format() = %q, want %q", buf.String(), want)
	}
}

func TestTextFormatter_Format_Cancelled(t *testing.T) {
	f := NewTextFormatter(FormatOptions{})
	report := createTestReport(filter.Filter{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var buf bytes.Buffer
	if err := f.Format(ctx, report, &buf); err == nil {
		t.Error("Format() expected error for cancelled context")
	}
}

func TestNewFormatter(t *testing.T) {
	for _, name := range []string{"text", "json"} {
		f, err := NewFormatter(name, FormatOptions{})
		if err != nil {
			t.Fatalf("NewFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
	}
	if _, err := NewFormatter("xml", FormatOptions{}); err == nil {
		t.Error("NewFormatter() expected error for unknown format")
	}
}

func TestReport_Complete(t *testing.T) {
	report := createTestReport(filter.Filter{})
	if !report.Complete() {
		t.Error("Complete() = false for a completed run")
	}

	cancelled := NewReport(nil, parser.Status{Kind: parser.StatusCancelled}, filter.Filter{}, Metadata{})
	if cancelled.Complete() {
		t.Error("Complete() = true for a cancelled run")
	}
	if cancelled.Metadata.RunID != "" {
		t.Errorf("RunID = %q, want empty for nil run ID", cancelled.Metadata.RunID)
	}
}

func createTestReport(f filter.Filter) *Report {
	records := []parser.Record{
		{Timestamp: "10:00:00.000", Level: parser.LevelInfo, Message: "started", SourceFile: "Main.cpp", SourceFunction: "main", SourceLine: 10},
		{Timestamp: "10:00:01.000", Level: parser.LevelWarn, Message: "low memory", SourceFile: "Mem.cpp", SourceFunction: "check", SourceLine: 20},
		{Timestamp: "10:00:02.000", Level: parser.LevelError, Message: "disk full", SourceFile: "Store.cpp", SourceFunction: "write", SourceLine: 88},
	}
	st := parser.Status{
		RunID:   uuid.New(),
		Kind:    parser.StatusCompleted,
		Percent: 100,
		Lines:   4,
		Matched: 3,
	}
	return NewReport(records, st, f, Metadata{
		File:      "app.log",
		Grammar:   "bracket",
		StartedAt: time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC),
		Duration:  1500 * time.Millisecond,
	})
}
