package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Column widths of the record table.
const (
	timestampWidth = 15
	levelWidth     = 6
	sourceWidth    = 30
	minMessage     = 10
)

// View renders the viewer
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("hxlog") + "  File: " + m.pathInput.View() + "\n")
	b.WriteString(m.renderStatus() + "\n")
	b.WriteString(m.renderFilters() + "\n")
	b.WriteString(m.renderHeader() + "\n")

	rows := m.visible()
	if len(rows) == 0 {
		b.WriteString(dimStyle.Render("No log entries to display") + "\n")
	}
	for _, rec := range rows {
		b.WriteString(m.renderRow(rec) + "\n")
	}

	b.WriteString(dimStyle.Render(m.position()) + "\n")
	b.WriteString(dimStyle.Render(m.helpLine()))
	return b.String()
}

func (m *Model) renderStatus() string {
	status := m.Status()
	if st := m.status.Load(); st != nil && m.notice == "" && st.Kind == parser.StatusFailed {
		return "Status: " + errorStyle.Render(status)
	}
	return "Status: " + statusStyle.Render(status)
}

func (m *Model) renderFilters() string {
	var parts []string
	for _, l := range []parser.Level{parser.LevelDebug, parser.LevelInfo, parser.LevelWarn, parser.LevelError} {
		box := "[ ]"
		if m.filter.Has(l) {
			box = "[x]"
		}
		parts = append(parts, box+" "+levelStyle(l).Render(l.String()))
	}
	search := m.searchInput.View()
	return "Filters: " + strings.Join(parts, "  ") + "   Search: " + search
}

func (m *Model) messageWidth() int {
	width := m.width
	if width <= 0 {
		width = 120
	}
	// Three separators of " │ " between four columns.
	return max(width-timestampWidth-levelWidth-sourceWidth-9, minMessage)
}

func (m *Model) renderHeader() string {
	cells := []string{
		cell("Timestamp", timestampWidth),
		cell("Level", levelWidth),
		cell("Message", m.messageWidth()),
		cell("Source", sourceWidth),
	}
	return headerStyle.Render(strings.Join(cells, " │ "))
}

func (m *Model) renderRow(rec parser.Record) string {
	cells := []string{
		cell(rec.Timestamp, timestampWidth),
		levelStyle(rec.Level).Render(cell(rec.Level.Label(), levelWidth)),
		cell(rec.Message, m.messageWidth()),
		dimStyle.Render(cell(rec.SourceLocation(), sourceWidth)),
	}
	return strings.Join(cells, " │ ")
}

// position renders "Showing X of Y entries" and the scroll position.
func (m *Model) position() string {
	s := fmt.Sprintf("Showing %d of %d entries", len(m.matched), m.scanned)
	rows := m.visibleRows()
	if len(m.matched) > rows {
		pct := m.offset * 100 / max(1, len(m.matched)-rows)
		s += fmt.Sprintf(" | Scroll: %d%%", pct)
	}
	return s
}

func (m *Model) helpLine() string {
	var parts []string
	for _, b := range m.keys.ShortHelp() {
		h := b.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return lipgloss.NewStyle().MaxWidth(max(m.width, 40)).Render(strings.Join(parts, "  "))
}

// cell truncates or pads s to exactly width terminal columns.
func cell(s string, width int) string {
	s = strings.ReplaceAll(s, "\t", " ")
	if runewidth.StringWidth(s) > width {
		s = runewidth.Truncate(s, width, "…")
	}
	return runewidth.FillRight(s, width)
}
