package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Color palette
var (
	ColorGold   = lipgloss.Color("#FFD700")
	ColorGreen  = lipgloss.Color("#44FF44")
	ColorCyan   = lipgloss.Color("#00D7D7")
	ColorYellow = lipgloss.Color("#FFAA00")
	ColorRed    = lipgloss.Color("#FF4444")
	ColorBlue   = lipgloss.Color("#5F87FF")
	ColorGray   = lipgloss.Color("#808080")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorGold)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorGold)
	statusStyle = lipgloss.NewStyle().Foreground(ColorGreen)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorGray)
	errorStyle  = lipgloss.NewStyle().Foreground(ColorRed)
)

var levelColors = map[parser.Level]lipgloss.Color{
	parser.LevelDebug:  ColorCyan,
	parser.LevelInfo:   ColorGreen,
	parser.LevelWarn:   ColorYellow,
	parser.LevelError:  ColorRed,
	parser.LevelHeader: ColorBlue,
	parser.LevelFooter: ColorBlue,
}

func levelStyle(l parser.Level) lipgloss.Style {
	c, ok := levelColors[l]
	if !ok {
		c = ColorCyan
	}
	return lipgloss.NewStyle().Foreground(c)
}
