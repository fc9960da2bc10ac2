// Package tui implements the interactive log viewer.
//
// The viewer owns a parser.Controller and the parser.Store it fills. The
// worker goroutine only ever touches the store and an atomically replaced
// status value; the bubbletea loop picks both up on a periodic tick.
package tui

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/ccollicutt/hxlog/internal/logging"
	"github.com/ccollicutt/hxlog/pkg/filter"
	"github.com/ccollicutt/hxlog/pkg/output"
	"github.com/ccollicutt/hxlog/pkg/parser"
)

// DefaultTickInterval is how often the view polls the store and status.
const DefaultTickInterval = 100 * time.Millisecond

// Focus is the component receiving key presses.
type Focus int

const (
	FocusTable Focus = iota
	FocusPath
	FocusSearch
)

// Config holds the viewer dependencies.
type Config struct {
	Controller *parser.Controller
	Store      *parser.Store

	// Path is opened when the program starts. Empty leaves the viewer idle.
	Path string

	// Filter is the initial level and search filter.
	Filter filter.Filter

	// OnOpen is called after a file has been opened, typically to
	// remember it for the next session.
	OnOpen func(path string) error

	// Copy places text on the clipboard. Defaults to the system clipboard.
	Copy func(text string) error

	Logger       *slog.Logger
	TickInterval time.Duration
}

// TickMsg triggers a refresh of the visible window.
type TickMsg time.Time

// Model is the viewer state.
type Model struct {
	keys KeyMap
	ctx  context.Context

	controller *parser.Controller
	store      *parser.Store

	// status is the latest report of the current run. It is written by
	// the worker goroutine and read by View.
	status atomic.Pointer[parser.Status]

	path        string
	pathInput   textinput.Model
	searchInput textinput.Model
	focus       Focus

	// notice is a one-off message shown in place of the run status.
	notice string

	filter  filter.Filter
	matched []int // store indices of records passing the filter
	scanned int   // store records already tested against the filter
	offset  int   // first visible position in matched

	width  int
	height int

	tick   time.Duration
	onOpen func(path string) error
	copy   func(text string) error
	logger *slog.Logger
}

// New returns a viewer model. ctx bounds every run the viewer starts.
func New(ctx context.Context, cfg Config) *Model {
	pathInput := textinput.New()
	pathInput.Placeholder = "path/to/log.txt"
	pathInput.Prompt = ""
	pathInput.CharLimit = 4096
	pathInput.SetValue(cfg.Path)

	searchInput := textinput.New()
	searchInput.Placeholder = "search term"
	searchInput.Prompt = ""
	searchInput.CharLimit = 200
	searchInput.SetValue(cfg.Filter.Search)

	m := &Model{
		keys:        DefaultKeyMap(),
		ctx:         ctx,
		controller:  cfg.Controller,
		store:       cfg.Store,
		path:        cfg.Path,
		pathInput:   pathInput,
		searchInput: searchInput,
		filter:      cfg.Filter,
		tick:        cfg.TickInterval,
		onOpen:      cfg.OnOpen,
		copy:        cfg.Copy,
		logger:      cfg.Logger,
	}
	if m.tick <= 0 {
		m.tick = DefaultTickInterval
	}
	if m.copy == nil {
		m.copy = clipboard.WriteAll
	}
	if m.logger == nil {
		m.logger = logging.FromContext(ctx)
	}
	return m
}

// Init opens the initial file and starts the refresh tick.
func (m *Model) Init() tea.Cmd {
	if m.path != "" {
		m.Open(m.path)
	}
	return m.tickCmd()
}

func (m *Model) tickCmd() tea.Cmd {
	return tea.Tick(m.tick, func(t time.Time) tea.Msg {
		return TickMsg(t)
	})
}

// Open stops the current run, clears the store and parses path from the
// beginning.
func (m *Model) Open(path string) {
	path = strings.TrimSpace(path)

	m.controller.Stop()
	m.store.Reset()
	m.matched = m.matched[:0]
	m.scanned = 0
	m.offset = 0
	m.notice = ""
	m.status.Store(nil)

	m.path = path
	m.pathInput.SetValue(path)
	m.controller.Start(m.ctx, path, m.store, m.report)
	m.logger.Info("file opened", "path", path)

	if m.onOpen != nil {
		if err := m.onOpen(path); err != nil {
			m.logger.Warn("saving session state", "error", err)
		}
	}
}

// report receives status updates on the worker goroutine.
func (m *Model) report(st parser.Status) {
	m.status.Store(&st)
}

// Status returns the line shown in the status bar.
func (m *Model) Status() string {
	if m.notice != "" {
		return m.notice
	}
	st := m.status.Load()
	if st == nil {
		if m.controller.IsRunning() {
			return "Parsing..."
		}
		return "Ready"
	}
	return st.String()
}

// Filter returns the active filter.
func (m *Model) Filter() filter.Filter {
	return m.filter
}

// Stop cancels the current run and waits for it to exit.
func (m *Model) Stop() {
	m.controller.Stop()
}

// refresh tests records appended since the previous refresh against the
// filter.
func (m *Model) refresh() {
	n := m.store.Len()
	if n < m.scanned {
		m.matched = m.matched[:0]
		m.scanned = 0
	}
	if n > m.scanned {
		for _, i := range m.filter.Indices(m.store.Slice(m.scanned, n)) {
			m.matched = append(m.matched, m.scanned+i)
		}
		m.scanned = n
	}
	m.clampOffset()
}

func (m *Model) setFilter(f filter.Filter) {
	m.filter = f
	m.matched = m.matched[:0]
	m.scanned = 0
	m.offset = 0
	m.refresh()
}

// visibleRows returns the number of table rows that fit the window.
func (m *Model) visibleRows() int {
	const chrome = 8
	if m.height <= 0 {
		return 20
	}
	return max(m.height-chrome, 1)
}

func (m *Model) clampOffset() {
	maxOffset := max(len(m.matched)-m.visibleRows(), 0)
	m.offset = min(max(m.offset, 0), maxOffset)
}

func (m *Model) scroll(delta int) {
	m.offset += delta
	m.clampOffset()
}

// visible returns the records of the current window.
func (m *Model) visible() []parser.Record {
	end := min(m.offset+m.visibleRows(), len(m.matched))
	rows := make([]parser.Record, 0, end-m.offset)
	for _, idx := range m.matched[m.offset:end] {
		if rec, ok := m.store.At(idx); ok {
			rows = append(rows, rec)
		}
	}
	return rows
}

// copyFiltered places every record passing the filter on the clipboard in
// export format.
func (m *Model) copyFiltered() {
	var b strings.Builder
	for _, idx := range m.matched {
		if rec, ok := m.store.At(idx); ok {
			b.WriteString(output.FormatRecord(rec))
			b.WriteByte('\n')
		}
	}
	if err := m.copy(b.String()); err != nil {
		m.logger.Warn("copying to clipboard", "error", err)
		m.notice = "Copy failed: " + err.Error()
		return
	}
	m.notice = "Copied " + strconv.Itoa(len(m.matched)) + " entries to clipboard"
}
