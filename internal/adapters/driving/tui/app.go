// Package tui provides the interactive terminal UI for Lister.
//
// The list view renders the entries of one directory in the layout the
// persisted preference selects. The view never assumes the layout it last
// wrote: it subscribes to the preference stream and re-renders whenever a
// new value arrives, so changes made by other lister processes show up too.
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/lister-cli/internal/core/domain"
	"github.com/custodia-labs/lister-cli/internal/core/ports/driving"
)

// gridColumnWidth is the cell width used by the grid layout.
const gridColumnWidth = 24

// entry is one directory entry in the list.
type entry struct {
	name  string
	isDir bool
}

// layoutMsg carries a new value from the preference stream.
type layoutMsg bool

// layoutStreamDoneMsg signals that the preference stream terminated.
type layoutStreamDoneMsg struct {
	err error
}

// saveFailedMsg signals that persisting a layout toggle failed.
type saveFailedMsg struct {
	err error
}

// Model is the bubbletea model for the list view.
type Model struct {
	service driving.LayoutService
	sub     driving.LayoutSubscription
	cancel  context.CancelFunc

	keys   KeyMap
	help   help.Model
	styles *Styles

	dir      string
	entries  []entry
	selected int
	isLinear bool
	width    int
	height   int
	err      error
}

// New creates the list view for dir and subscribes to the layout preference.
func New(service driving.LayoutService, dir string) (*Model, error) {
	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", dir, err)
	}

	entries := make([]entry, 0, len(dirEntries))
	for _, e := range dirEntries {
		entries = append(entries, entry{name: e.Name(), isDir: e.IsDir()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	sub, err := service.IsLinearLayout(ctx)
	if err != nil {
		cancel()
		return nil, err
	}

	return &Model{
		service:  service,
		sub:      sub,
		cancel:   cancel,
		keys:     DefaultKeyMap(),
		help:     help.New(),
		styles:   DefaultStyles(),
		dir:      dir,
		entries:  entries,
		isLinear: domain.DefaultLayoutPreferences().IsLinearLayout,
		width:    80,
		height:   24,
	}, nil
}

// Init starts listening on the preference stream.
func (m *Model) Init() tea.Cmd {
	return m.waitForLayout()
}

// waitForLayout blocks until the next preference stream value.
func (m *Model) waitForLayout() tea.Cmd {
	return func() tea.Msg {
		v, ok := <-m.sub.Updates()
		if !ok {
			return layoutStreamDoneMsg{err: m.sub.Err()}
		}
		return layoutMsg(v)
	}
}

// toggleLayout persists the flipped layout flag. The view updates when the
// write comes back through the stream.
func (m *Model) toggleLayout() tea.Cmd {
	next := !m.isLinear
	return func() tea.Msg {
		if err := m.service.SaveLayoutPreferences(context.Background(), next); err != nil {
			return saveFailedMsg{err: err}
		}
		return nil
	}
}

// Update handles messages for the list view.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case layoutMsg:
		m.isLinear = bool(msg)
		return m, m.waitForLayout()

	case layoutStreamDoneMsg:
		// Keep rendering with the last known layout; surface the cause.
		m.err = msg.err
		return m, nil

	case saveFailedMsg:
		m.err = msg.err
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.cancel()
			m.sub.Close()
			return m, tea.Quit

		case key.Matches(msg, m.keys.Up):
			if m.selected > 0 {
				m.selected--
			}
			return m, nil

		case key.Matches(msg, m.keys.Down):
			if m.selected < len(m.entries)-1 {
				m.selected++
			}
			return m, nil

		case key.Matches(msg, m.keys.ToggleLayout):
			return m, m.toggleLayout()

		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
	}

	return m, nil
}

// View renders the list in the current layout.
func (m *Model) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render(m.dir))
	b.WriteString("\n\n")

	if m.isLinear {
		b.WriteString(m.viewLinear())
	} else {
		b.WriteString(m.viewGrid())
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Muted.Render(fmt.Sprintf(
		"%d entries · %s layout", len(m.entries), domain.LayoutFromBool(m.isLinear))))
	b.WriteString("\n")

	if m.err != nil {
		b.WriteString(m.styles.Error.Render(fmt.Sprintf("error: %v", m.err)))
		b.WriteString("\n")
	}

	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// viewLinear renders one entry per row.
func (m *Model) viewLinear() string {
	var b strings.Builder
	for i, e := range m.entries {
		b.WriteString(m.renderEntry(e, i == m.selected, 0))
		b.WriteString("\n")
	}
	return b.String()
}

// viewGrid packs entries into fixed-width columns.
func (m *Model) viewGrid() string {
	columns := m.width / gridColumnWidth
	if columns < 1 {
		columns = 1
	}

	var b strings.Builder
	var row []string
	for i, e := range m.entries {
		row = append(row, m.renderEntry(e, i == m.selected, gridColumnWidth))
		if len(row) == columns {
			b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
			b.WriteString("\n")
			row = nil
		}
	}
	if len(row) > 0 {
		b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, row...))
		b.WriteString("\n")
	}
	return b.String()
}

// renderEntry renders a single entry, padded to width when non-zero.
func (m *Model) renderEntry(e entry, selected bool, width int) string {
	name := e.name
	if e.isDir {
		name += "/"
	}

	style := m.styles.Normal
	if e.isDir {
		style = m.styles.Directory
	}
	if selected {
		style = m.styles.Selected
	}
	if width > 0 {
		style = style.Width(width)
	}

	return style.Render(name)
}
