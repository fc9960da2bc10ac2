package output

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

func TestNewJSONFormatter(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	if f == nil {
		t.Fatal("NewJSONFormatter() returned nil")
	}
	if f.Name() != "json" {
		t.Errorf("Name() = %q, want %q", f.Name(), "json")
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{})
	report := createTestReport(filter.Filter{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}

	if parsed.Summary.Shown != 3 {
		t.Errorf("Shown = %d, want 3", parsed.Summary.Shown)
	}
	if len(parsed.Records) != 3 {
		t.Fatalf("Records = %d, want 3", len(parsed.Records))
	}
	if parsed.Records[2].Level != parser.LevelError {
		t.Errorf("Records[2].Level = %v, want ERROR", parsed.Records[2].Level)
	}
	if parsed.Summary.ByLevel[parser.LevelWarn] != 1 {
		t.Errorf("ByLevel[WARN] = %d, want 1", parsed.Summary.ByLevel[parser.LevelWarn])
	}
	if parsed.Metadata.File != "" {
		t.Error("non-verbose JSON should not include metadata")
	}
	if !strings.Contains(buf.String(), `"level": "ERROR"`) {
		t.Errorf("levels should encode as tokens:\n%s", buf.String())
	}
}

func TestJSONFormatter_Format_Verbose(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Verbose: true})
	report := createTestReport(filter.Filter{Levels: []parser.Level{parser.LevelInfo}})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Report
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.Metadata.File != "app.log" || parsed.Metadata.Status != "completed" {
		t.Errorf("Metadata = %+v", parsed.Metadata)
	}
	if parsed.Metadata.RunID == "" {
		t.Error("Metadata.RunID is empty")
	}
	if len(parsed.Records) != 1 || parsed.Summary.Matched != 3 {
		t.Errorf("Records = %d, Matched = %d, want 1 and 3", len(parsed.Records), parsed.Summary.Matched)
	}
}

func TestJSONFormatter_Format_Quiet(t *testing.T) {
	f := NewJSONFormatter(FormatOptions{Quiet: true})
	report := createTestReport(filter.Filter{})

	var buf bytes.Buffer
	if err := f.Format(context.Background(), report, &buf); err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	var parsed Summary
	if err := json.Unmarshal(buf.Bytes(), &parsed); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if parsed.LinesRead != 4 || parsed.Matched != 3 {
		t.Errorf("Summary = %+v", parsed)
	}
	if strings.Contains(buf.String(), "records") {
		t.Error("quiet JSON should not include records")
	}
}
