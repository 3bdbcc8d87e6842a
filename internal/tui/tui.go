// Package tui implements the live timer view behind "mtt watch".
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mtt-project/mtt/pkg/model"
	"github.com/mtt-project/mtt/pkg/timefmt"
)

// LoadFunc reads the current state.
type LoadFunc func() (*model.AppState, error)

type (
	tickMsg         time.Time
	stateChangedMsg struct{}
	stateLoadedMsg  struct {
		state *model.AppState
		err   error
	}
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229"))
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("245"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
	idleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	activeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	emptyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true)
)

// Model is the bubbletea model for the watch view.
type Model struct {
	load    LoadFunc
	changes <-chan struct{}
	clock   func() time.Time

	state *model.AppState
	err   error
	now   time.Time

	keys keyMap
	help help.Model
}

// NewModel builds the view. changes may be nil when file watching is
// unavailable; the view then only refreshes on tick and manual reload.
func NewModel(load LoadFunc, changes <-chan struct{}) Model {
	return Model{
		load:    load,
		changes: changes,
		clock:   time.Now,
		now:     time.Now(),
		keys:    defaultKeyMap(),
		help:    help.New(),
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadCmd(), tickCmd(), m.waitForChange())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Reload):
			return m, m.loadCmd()
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}

	case tickMsg:
		m.now = time.Time(msg)
		return m, tickCmd()

	case stateChangedMsg:
		return m, tea.Batch(m.loadCmd(), m.waitForChange())

	case stateLoadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.state = msg.state
		}
		m.now = m.clock()
	}
	return m, nil
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("mtt") + "  " + idleStyle.Render(m.now.Format("15:04:05")) + "\n\n")

	if m.err != nil {
		b.WriteString(errorStyle.Render("error: "+m.err.Error()) + "\n\n")
	}

	switch {
	case m.state == nil:
		b.WriteString(emptyStyle.Render("loading...") + "\n")
	case len(m.state.Timers) == 0:
		b.WriteString(emptyStyle.Render("no timers yet; run `mtt start -c NAME`") + "\n")
	default:
		b.WriteString(m.renderTimers())
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m Model) renderTimers() string {
	names := m.state.TimerNames()
	width := len("TIMER")
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(fmt.Sprintf("  %-*s  %-8s  %-16s  %s", width, "TIMER", "STATE", "CURRENT", "TOTAL")) + "\n")

	active, _ := m.state.ActiveTimerName()
	for _, name := range names {
		t, _ := m.state.GetTimer(name)
		marker := "  "
		label := fmt.Sprintf("%-*s", width, name)
		if name == active {
			marker = activeStyle.Render("* ")
			label = activeStyle.Render(label)
		}

		stateCell := idleStyle.Render(fmt.Sprintf("%-8s", t.Status()))
		current := "-"
		if t.IsRunning() {
			stateCell = runningStyle.Render(fmt.Sprintf("%-8s", t.Status()))
			current = timefmt.FormatDuration(t.Elapsed(m.now))
		}
		total := t.TotalDuration() + t.Elapsed(m.now)

		fmt.Fprintf(&b, "%s%s  %s  %-16s  %s\n", marker, label, stateCell, current, timefmt.FormatDuration(total))
	}
	return b.String()
}

func (m Model) loadCmd() tea.Cmd {
	load := m.load
	return func() tea.Msg {
		state, err := load()
		return stateLoadedMsg{state: state, err: err}
	}
}

func (m Model) waitForChange() tea.Cmd {
	if m.changes == nil {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		if _, ok := <-changes; !ok {
			return nil
		}
		return stateChangedMsg{}
	}
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Run starts the watch view and blocks until the user quits or ctx is done.
func Run(ctx context.Context, statePath string, load LoadFunc) error {
	var changes <-chan struct{}
	sw, err := NewStateWatcher(statePath)
	if err == nil {
		if err = sw.Start(ctx); err == nil {
			changes = sw.Changes()
		}
		defer sw.Close()
	}

	p := tea.NewProgram(NewModel(load, changes), tea.WithContext(ctx), tea.WithAltScreen())
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("watch: %w", err)
	}
	return nil
}
