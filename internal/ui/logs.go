package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/hodory/beacon/internal/logtail"
)

const logTailLines = 400

type logLinesMsg struct {
	lines []string
	err   error
}

func (m *Model) initLogViewport() {
	m.logViewport = viewport.New(m.width, m.logHeight())
}

func (m *Model) resizeLogViewport() {
	m.logViewport.Width = m.width
	m.logViewport.Height = m.logHeight()
	m.updateLogViewport()
}

func (m Model) logHeight() int {
	// header, command bar, log title
	h := m.height - 3
	if h < 1 {
		return 1
	}
	return h
}

func (m *Model) handleLogLines(msg logLinesMsg) {
	m.logErr = msg.err
	if msg.err != nil {
		return
	}
	m.logLines = msg.lines
	m.updateLogViewport()
}

func (m *Model) updateLogViewport() {
	styles := m.theme.Styles()
	var b strings.Builder
	for i, line := range m.logLines {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(m.renderLogLine(line, styles))
	}
	m.logViewport.SetContent(b.String())
	if m.logFollow {
		m.logViewport.GotoBottom()
	}
}

func (m Model) renderLogLine(line string, styles Styles) string {
	e := logtail.Parse(line)
	var stamp string
	if !e.Time.IsZero() {
		stamp = styles.FaintText.Render(e.Time.Format("15:04:05")) + " "
	}
	var msg lipgloss.Style
	switch e.Level {
	case logtail.LevelError:
		msg = styles.DangerText
	case logtail.LevelWarn:
		msg = styles.WarningText
	default:
		msg = styles.Text
	}
	return stamp + msg.Render(e.Message)
}

func (m Model) renderLogs() string {
	styles := m.theme.Styles()
	path := ""
	if m.config != nil {
		path = m.config.LogPath()
	}

	title := styles.AccentText.Bold(true).Render("Host log")
	if path != "" {
		title += "  " + styles.MutedText.Render(truncateMiddle(path, max(m.width-30, 10)))
	}
	if m.logFollow {
		title += "  " + styles.SuccessText.Render("following")
	} else {
		title += "  " + styles.MutedText.Render("paused")
	}
	if m.logErr != nil {
		title += "  " + styles.DangerText.Render(truncate(m.logErr.Error(), 40))
	}

	if len(m.logLines) == 0 {
		return title + "\n" + styles.MutedText.Render("No log lines yet")
	}
	return title + "\n" + m.logViewport.View()
}

func (m Model) handleLogsKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.ToggleFollow):
		m.logFollow = !m.logFollow
		if m.logFollow {
			m.logViewport.GotoBottom()
		}
		return m, nil
	case key.Matches(msg, m.keys.Up):
		m.logFollow = false
		m.logViewport.ScrollUp(1)
	case key.Matches(msg, m.keys.Down):
		m.logViewport.ScrollDown(1)
	case key.Matches(msg, m.keys.Top):
		m.logFollow = false
		m.logViewport.GotoTop()
	case key.Matches(msg, m.keys.Bottom):
		m.logFollow = true
		m.logViewport.GotoBottom()
	case key.Matches(msg, m.keys.HalfPageUp):
		m.logFollow = false
		m.logViewport.HalfViewUp()
	case key.Matches(msg, m.keys.HalfPageDown):
		m.logViewport.HalfViewDown()
	}
	return m, nil
}

func (m Model) refreshLogs() tea.Cmd {
	if m.config == nil {
		return nil
	}
	path := m.config.LogPath()
	return func() tea.Msg {
		lines, err := logtail.Read(path, logTailLines)
		return logLinesMsg{lines: lines, err: err}
	}
}
