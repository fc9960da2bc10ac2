package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccollicutt/hxlog/pkg/parser"
)

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.pathInput.Width = max(m.width-20, 10)
		m.searchInput.Width = max(m.width/3, 10)
		m.clampOffset()
		return m, nil

	case TickMsg:
		m.refresh()
		return m, m.tickCmd()

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.MouseMsg:
		return m.handleMouseEvent(msg)
	}

	return m, nil
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.ForceQuit) {
		return m.quit()
	}

	switch m.focus {
	case FocusPath:
		return m.handlePathKey(msg)
	case FocusSearch:
		return m.handleSearchKey(msg)
	}

	m.notice = ""

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Open):
		m.focus = FocusPath
		return m, m.pathInput.Focus()
	case key.Matches(msg, m.keys.Search):
		m.focus = FocusSearch
		return m, m.searchInput.Focus()
	case key.Matches(msg, m.keys.ToggleDebug):
		m.setFilter(m.filter.Toggle(parser.LevelDebug))
	case key.Matches(msg, m.keys.ToggleInfo):
		m.setFilter(m.filter.Toggle(parser.LevelInfo))
	case key.Matches(msg, m.keys.ToggleWarn):
		m.setFilter(m.filter.Toggle(parser.LevelWarn))
	case key.Matches(msg, m.keys.ToggleError):
		m.setFilter(m.filter.Toggle(parser.LevelError))
	case key.Matches(msg, m.keys.Copy):
		m.copyFiltered()
	case key.Matches(msg, m.keys.Up):
		m.scroll(-1)
	case key.Matches(msg, m.keys.Down):
		m.scroll(1)
	case key.Matches(msg, m.keys.PageUp):
		m.scroll(-m.visibleRows())
	case key.Matches(msg, m.keys.PageDown):
		m.scroll(m.visibleRows())
	case key.Matches(msg, m.keys.Home):
		m.offset = 0
	case key.Matches(msg, m.keys.End):
		m.offset = len(m.matched)
		m.clampOffset()
	}
	return m, nil
}

func (m *Model) handlePathKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.pathInput.Blur()
		m.focus = FocusTable
		m.Open(m.pathInput.Value())
		return m, nil
	case key.Matches(msg, m.keys.Escape):
		m.pathInput.Blur()
		m.pathInput.SetValue(m.path)
		m.focus = FocusTable
		return m, nil
	}

	var cmd tea.Cmd
	m.pathInput, cmd = m.pathInput.Update(msg)
	return m, cmd
}

func (m *Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.Enter) || key.Matches(msg, m.keys.Escape) {
		m.searchInput.Blur()
		m.focus = FocusTable
		return m, nil
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if term := m.searchInput.Value(); term != m.filter.Search {
		f := m.filter
		f.Search = term
		m.setFilter(f)
	}
	return m, cmd
}

// handleMouseEvent scrolls the table with the wheel.
func (m *Model) handleMouseEvent(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if msg.Action != tea.MouseActionPress {
		return m, nil
	}
	switch msg.Button {
	case tea.MouseButtonWheelUp:
		m.scroll(-3)
	case tea.MouseButtonWheelDown:
		m.scroll(3)
	}
	return m, nil
}

// quit stops the current run before leaving the program.
func (m *Model) quit() (tea.Model, tea.Cmd) {
	m.controller.Stop()
	return m, tea.Quit
}
