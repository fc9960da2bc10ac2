// Package filter selects records by level and message text.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Filter selects records. The zero value matches everything.
type Filter struct {
	// Levels restricts matches to the listed levels. Empty means every
	// level, including HEADER and FOOTER.
	Levels []parser.Level

	// Search is a case-sensitive substring the message must contain.
	Search string
}

// Active reports whether the filter rejects anything.
func (f Filter) Active() bool {
	return len(f.Levels) > 0 || f.Search != ""
}

// Has reports whether l is explicitly selected.
func (f Filter) Has(l parser.Level) bool {
	return slices.Contains(f.Levels, l)
}

// Toggle returns a copy of f with l added to or removed from Levels.
// Levels stay in declaration order.
func (f Filter) Toggle(l parser.Level) Filter {
	var levels []parser.Level
	for _, lv := range parser.Levels {
		if (lv == l) != f.Has(lv) {
			levels = append(levels, lv)
		}
	}
	f.Levels = levels
	return f
}

// Match reports whether rec passes the filter.
func (f Filter) Match(rec parser.Record) bool {
	if len(f.Levels) > 0 && !f.Has(rec.Level) {
		return false
	}
	if f.Search != "" && !strings.Contains(rec.Message, f.Search) {
		return false
	}
	return true
}

// Apply returns the matching records in their original order.
func (f Filter) Apply(records []parser.Record) []parser.Record {
	if !f.Active() {
		return records
	}
	var out []parser.Record
	for _, rec := range records {
		if f.Match(rec) {
			out = append(out, rec)
		}
	}
	return out
}

// Indices returns the positions of the matching records.
func (f Filter) Indices(records []parser.Record) []int {
	out := make([]int, 0, len(records))
	for i, rec := range records {
		if f.Match(rec) {
			out = append(out, i)
		}
	}
	return out
}

// String describes the filter for status lines.
func (f Filter) String() string {
	if !f.Active() {
		return "all"
	}
	var parts []string
	if len(f.Levels) > 0 {
		names := make([]string, len(f.Levels))
		for i, l := range f.Levels {
			names[i] = l.String()
		}
		parts = append(parts, "levels="+strings.Join(names, ","))
	}
	if f.Search != "" {
		parts = append(parts, fmt.Sprintf("search=%q", f.Search))
	}
	return strings.Join(parts, " ")
}

// CountByLevel counts records per level.
func CountByLevel(records []parser.Record) map[parser.Level]int {
	counts := make(map[parser.Level]int)
	for _, rec := range records {
		counts[rec.Level]++
	}
	return counts
}

// ParseLevels parses level names case-insensitively, dropping duplicates.
func ParseLevels(names []string) ([]parser.Level, error) {
	var levels []parser.Level
	for _, name := range names {
		var l parser.Level
		if err := l.UnmarshalText([]byte(strings.ToUpper(strings.TrimSpace(name)))); err != nil {
			return nil, err
		}
		if !slices.Contains(levels, l) {
			levels = append(levels, l)
		}
	}
	return levels, nil
}
