package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/timbertrack/timber/internal/cli/formatter"
	"github.com/timbertrack/timber/internal/domain"
	"github.com/timbertrack/timber/internal/service"
)

const watchPatchStep = 5

type watchKeyMap struct {
	Plus  key.Binding
	Minus key.Binding
	End   key.Binding
	Quit  key.Binding
}

func (k watchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Plus, k.Minus, k.End, k.Quit}
}

func (k watchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

func defaultWatchKeys() watchKeyMap {
	return watchKeyMap{
		Plus:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", fmt.Sprintf("add %dm", watchPatchStep))),
		Minus: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", fmt.Sprintf("remove %dm", watchPatchStep))),
		End:   key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "end session")),
		Quit:  key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// watchTickMsg is sent every second to refresh the elapsed time.
type watchTickMsg time.Time

type watchPatchedMsg struct {
	session *domain.Session
	err     error
}

type watchEndedMsg struct {
	session *domain.Session
	err     error
}

// watchModel follows the active session: it ticks every second and lets the
// user patch or end it without leaving the view.
type watchModel struct {
	ctx        context.Context
	app        *App
	session    *domain.Session
	clientName string
	now        time.Time
	status     string
	err        error
	ended      bool
	keys       watchKeyMap
	help       help.Model
	width      int
}

func newWatchModel(ctx context.Context, app *App, s *domain.Session) watchModel {
	return watchModel{
		ctx:        ctx,
		app:        app,
		session:    s,
		clientName: app.clientName(ctx, s.ClientID),
		now:        app.now(),
		keys:       defaultWatchKeys(),
		help:       help.New(),
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) Init() tea.Cmd {
	return watchTick()
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		if m.ended {
			return m, nil
		}
		m.now = m.app.now()
		return m, watchTick()

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case watchPatchedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.session = msg.session
		m.now = m.app.now()
		m.status = fmt.Sprintf("offset now %dm", msg.session.OffsetMinutes)
		return m, nil

	case watchEndedMsg:
		if msg.err != nil {
			return m.fail(msg.err)
		}
		m.session = msg.session
		m.ended = true
		return m, tea.Quit

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Plus):
			return m, m.patch(watchPatchStep)
		case key.Matches(msg, m.keys.Minus):
			return m, m.patch(-watchPatchStep)
		case key.Matches(msg, m.keys.End):
			return m, m.end()
		}
	}
	return m, nil
}

// fail records err. Losing the active session (ended from another shell)
// closes the view; other errors stay on screen.
func (m watchModel) fail(err error) (tea.Model, tea.Cmd) {
	m.err = err
	if errors.Is(err, service.ErrNoActiveSession) {
		return m, tea.Quit
	}
	m.status = m.app.describe(m.ctx, err).Error()
	return m, nil
}

func (m watchModel) patch(minutes int) tea.Cmd {
	return func() tea.Msg {
		s, err := m.app.Sessions.Patch(m.ctx, minutes)
		return watchPatchedMsg{session: s, err: err}
	}
}

func (m watchModel) end() tea.Cmd {
	return func() tea.Msg {
		s, _, err := m.app.Sessions.End(m.ctx)
		return watchEndedMsg{session: s, err: err}
	}
}

func (m watchModel) View() string {
	elapsed := lipgloss.NewStyle().Foreground(formatter.ColorGreen).Bold(true).
		Render(formatter.Elapsed(m.session.Duration(m.now)))

	lines := []string{
		formatter.Bold(m.clientName) + "  " + formatter.StatePill(!m.ended),
		"",
		elapsed,
		"",
		formatter.Dim("started ") + formatter.LocalTime(m.session.Start, m.now),
	}
	if off := formatter.Offset(m.session.OffsetMinutes); off != "" {
		lines = append(lines, formatter.Dim("offset  ")+off)
	}
	if m.session.Note != "" {
		lines = append(lines, formatter.Dim("note    ")+m.session.Note)
	}
	if m.status != "" {
		lines = append(lines, "", formatter.StyleYellow.Render(m.status))
	}

	var b strings.Builder
	b.WriteString(formatter.RenderBox(fmt.Sprintf("session #%d", m.session.ID), strings.Join(lines, "\n")))
	b.WriteString("\n")
	b.WriteString(m.help.View(m.keys))
	b.WriteString("\n")
	return b.String()
}
