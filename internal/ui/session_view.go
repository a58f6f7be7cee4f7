package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/session"
)

// expiringSeconds is when the countdown turns to the warning color.
const expiringSeconds = 10 * 60

func (m Model) renderSession() string {
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}

	left := m.renderBroadcast()
	right := m.renderSidePanel()

	body := lipgloss.JoinHorizontal(lipgloss.Top, left, "  ", right)
	return lipgloss.Place(m.width, contentHeight, lipgloss.Center, lipgloss.Center, body)
}

// renderBroadcast renders the QR code and the code students type.
func (m Model) renderBroadcast() string {
	styles := m.theme.Styles()

	if !m.isLive {
		var b strings.Builder
		b.WriteString(styles.MutedText.Render("No session running"))
		b.WriteString("\n\n")
		b.WriteString(styles.Code.Render(session.IdleCode))
		b.WriteString("\n\n")
		b.WriteString(styles.FaintText.Render("press n to start one"))
		return styles.Panel.Padding(1, 4).Render(b.String())
	}

	var b strings.Builder
	if m.qr != "" {
		b.WriteString(m.qr)
		b.WriteString("\n")
	}
	code := lipgloss.NewStyle().
		Foreground(lipgloss.Color(m.theme.Accent)).
		Bold(true).
		Render(spaced(m.broadcast.Session.Code))
	b.WriteString(lipgloss.PlaceHorizontal(lipgloss.Width(m.qr), lipgloss.Center, code))
	return b.String()
}

// renderSidePanel shows session details, countdown and the hotspot.
func (m Model) renderSidePanel() string {
	styles := m.theme.Styles()
	label := lipgloss.NewStyle().Foreground(lipgloss.Color(m.theme.Muted)).Width(10)

	var b strings.Builder
	s := m.broadcast.Session
	if m.isLive {
		countdown := styles.SuccessText
		if s.RemainingSeconds <= expiringSeconds {
			countdown = styles.WarningText.Bold(true)
		}
		b.WriteString(styles.StateStyle("live").Render("LIVE"))
		b.WriteString("\n\n")
		b.WriteString(label.Render("Module") + styles.Text.Render(orDash(s.ModuleCode)) + "\n")
		b.WriteString(label.Render("Room") + styles.Text.Render(orDash(s.Room)) + "\n")
		b.WriteString(label.Render("Started") + styles.Text.Render(s.StartedAt.Local().Format("15:04")) + "\n")
		b.WriteString(label.Render("Remaining") + countdown.Render(formatCountdown(s.RemainingSeconds)) + "\n")
	} else {
		b.WriteString(styles.StateStyle("idle").Render("IDLE"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(styles.AccentText.Bold(true).Render("Hotspot"))
	b.WriteString("\n")
	b.WriteString(m.renderHotspot(label))

	if m.isLive && m.broadcast.Payload.Network != nil {
		n := m.broadcast.Payload.Network
		b.WriteString("\n")
		b.WriteString(label.Render("SSID") + styles.Text.Render(n.SSID) + "\n")
		b.WriteString(label.Render("Security") + styles.Text.Render(n.Security) + "\n")
	}

	return styles.Panel.Width(38).Render(strings.TrimRight(b.String(), "\n"))
}

func (m Model) renderHotspot(label lipgloss.Style) string {
	styles := m.theme.Styles()
	if !m.snapshot.HasHotspot {
		return styles.MutedText.Render("checking...") + "\n"
	}
	hs := m.snapshot.Hotspot
	var b strings.Builder
	switch {
	case !hs.Supported:
		b.WriteString(styles.MutedText.Render("not available on this system") + "\n")
		return b.String()
	case hs.IsHotspotActive:
		b.WriteString(styles.StateStyle("hotspot").Render("UP") + "\n")
	default:
		b.WriteString(styles.StateStyle("idle").Render("DOWN") + "\n")
	}
	b.WriteString(label.Render("Interface") + styles.Text.Render(orDash(hs.Interface)) + "\n")
	b.WriteString(label.Render("State") + styles.Text.Render(orDash(hs.State)) + "\n")
	if hs.ConnectionName != "" && hs.ConnectionName != hotspot.ConnectionName {
		b.WriteString(label.Render("Network") + styles.Text.Render(hs.ConnectionName) + "\n")
	}
	if hs.IPv4Address != "" {
		b.WriteString(label.Render("Address") + styles.Text.Render(hs.IPv4Address) + "\n")
	}
	if hs.Error != "" {
		b.WriteString(styles.DangerText.Render(truncate(hs.Error, 34)) + "\n")
	}
	return b.String()
}

// formatCountdown renders seconds as H:MM:SS, or MM:SS under an hour.
func formatCountdown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, rem := seconds/3600, seconds%3600
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, rem/60, rem%60)
	}
	return fmt.Sprintf("%02d:%02d", rem/60, rem%60)
}

// spaced puts a space between characters so the code reads well projected.
func spaced(code string) string {
	return strings.Join(strings.Split(code, ""), " ")
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
