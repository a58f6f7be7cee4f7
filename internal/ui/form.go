package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type formField int

const (
	fieldModule formField = iota
	fieldRoom
	fieldHotspot
	fieldCount
)

// formAction is what the form asks the model to do after a key press.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formCancel
)

// sessionForm collects module, room and whether to raise the hotspot.
type sessionForm struct {
	inputs  [2]textinput.Model // module, room
	focus   formField
	hotspot bool
	ssid    string
	err     string
}

func newSessionForm(module, room string, hotspot bool, ssid string) sessionForm {
	labels := [2]string{"CS101", "B-204"}
	limits := [2]int{32, 32}
	values := [2]string{module, room}

	var f sessionForm
	for i := range f.inputs {
		ti := textinput.New()
		ti.Placeholder = labels[i]
		ti.CharLimit = limits[i]
		ti.Prompt = ""
		ti.SetValue(values[i])
		f.inputs[i] = ti
	}
	f.inputs[fieldModule].Focus()
	f.hotspot = hotspot
	f.ssid = ssid
	return f
}

func (f sessionForm) module() string { return strings.TrimSpace(f.inputs[fieldModule].Value()) }
func (f sessionForm) room() string   { return strings.TrimSpace(f.inputs[fieldRoom].Value()) }

func (f *sessionForm) setFocus(field formField) {
	f.focus = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		if formField(i) == f.focus {
			f.inputs[i].Focus()
		} else {
			f.inputs[i].Blur()
		}
	}
}

// update handles one key press.
func (f sessionForm) update(msg tea.KeyMsg, keys keyMap) (sessionForm, formAction, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Escape):
		return f, formCancel, nil
	case key.Matches(msg, keys.Confirm):
		if f.module() == "" {
			f.err = "module code is required"
			f.setFocus(fieldModule)
			return f, formNone, nil
		}
		f.err = ""
		return f, formSubmit, nil
	case key.Matches(msg, keys.NextField):
		f.setFocus(f.focus + 1)
		return f, formNone, nil
	case key.Matches(msg, keys.PrevField):
		f.setFocus(f.focus - 1)
		return f, formNone, nil
	}

	if f.focus == fieldHotspot {
		if key.Matches(msg, keys.Toggle) {
			f.hotspot = !f.hotspot
		}
		return f, formNone, nil
	}

	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return f, formNone, cmd
}

func (f sessionForm) view(theme Theme, width, height int) string {
	styles := theme.Styles()
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Muted)).Width(10)
	focusStyle := labelStyle.Foreground(lipgloss.Color(theme.Accent)).Bold(true)

	label := func(field formField, text string) string {
		if f.focus == field {
			return focusStyle.Render(text)
		}
		return labelStyle.Render(text)
	}

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("New attendance session"))
	b.WriteString("\n\n")
	b.WriteString(label(fieldModule, "Module") + f.inputs[fieldModule].View() + "\n")
	b.WriteString(label(fieldRoom, "Room") + f.inputs[fieldRoom].View() + "\n")

	box := "[ ]"
	if f.hotspot {
		box = "[x]"
	}
	hs := box + " Hotspot"
	if f.ssid != "" {
		hs += " (" + f.ssid + ")"
	}
	b.WriteString(label(fieldHotspot, "Network") + styles.Text.Render(hs) + "\n")

	if f.err != "" {
		b.WriteString("\n" + styles.DangerText.Render(f.err) + "\n")
	}
	b.WriteString("\n" + styles.FaintText.Render("tab next · space toggle · enter go live · esc cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.Accent)).
		Padding(1, 2).
		Width(52)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
