package ui

import (
	"errors"
	"net"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles().WithBackground(m.theme.Surface)
	bg := NewBgStyle(m.theme.Surface)
	sep := bg.Spaces(2)

	parts := []string{bg.Render("beacon", styles.Logo)}

	if m.isLive {
		parts = append(parts,
			bg.Render("● LIVE", styles.SuccessText),
			bg.Render(m.broadcast.Session.Code, styles.AccentText.Bold(true)),
			bg.Render(formatCountdown(m.broadcast.Session.RemainingSeconds), styles.Text),
		)
	} else {
		parts = append(parts, bg.Render("● IDLE", styles.MutedText))
	}

	if m.snapshot.HasHotspot && m.snapshot.Hotspot.IsHotspotActive {
		parts = append(parts, bg.Render("Hotspot:", styles.MutedText)+bg.Space()+bg.Render("up", styles.InfoText))
	}

	parts = append(parts, m.backendStatus(styles, bg))

	if ts := m.formatTimestamp(); ts != "" {
		parts = append(parts, bg.Render(ts, styles.FaintText))
	}

	return lipgloss.NewStyle().
		Background(lipgloss.Color(m.theme.Surface)).
		Foreground(lipgloss.Color(m.theme.Text)).
		Width(m.width).
		Render(styles.Header.Render(bg.Join(parts, "  ")) + sep)
}

func (m Model) backendStatus(styles Styles, bg BgStyle) string {
	label := bg.Render("API:", styles.MutedText) + bg.Space()
	switch {
	case m.snapshot.IsOffline():
		return label + bg.Render(classifyConnectionError(m.snapshot.LastError), styles.DangerText)
	case m.snapshot.LastError != nil:
		return label + bg.Render("retrying", styles.WarningText)
	case m.snapshot.HasBackend && m.snapshot.Backend.Reachable:
		return label + bg.Render("ok", styles.SuccessText)
	default:
		return label + bg.Render("checking", styles.MutedText)
	}
}

func (m Model) formatTimestamp() string {
	if m.snapshot.LastUpdated.IsZero() {
		return ""
	}
	age := time.Since(m.snapshot.LastUpdated)
	if age > 10*time.Second {
		return "updated " + m.snapshot.LastUpdated.Format("15:04:05")
	}
	return ""
}

// classifyConnectionError maps a ping error to a short label.
func classifyConnectionError(err error) string {
	if err == nil {
		return "offline"
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return "refused"
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return "timeout"
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return "dns error"
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "returned status"):
		return "server error"
	case strings.Contains(msg, "connection refused"):
		return "refused"
	default:
		return "offline"
	}
}

// renderCommandBar renders the key hints, or the pending action and last
// outcome when there is one.
func (m Model) renderCommandBar() string {
	styles := m.theme.Styles().WithBackground(m.theme.SurfaceAlt)
	bg := NewBgStyle(m.theme.SurfaceAlt)

	var content string
	switch {
	case m.busy != "":
		content = bg.Render(m.busy, styles.WarningText.Bold(true))
	case m.flash.text != "":
		style := styles.InfoText
		switch m.flash.level {
		case flashWarn:
			style = styles.WarningText
		case flashError:
			style = styles.DangerText
		}
		content = bg.Render(truncate(m.flash.text, max(m.width-2, 10)), style)
	default:
		hints := []struct{ key, desc string }{
			{"n", "new"},
			{"x", "stop"},
			{"w", "hotspot"},
			{"s", "session"},
			{"l", "logs"},
			{"?", "help"},
			{"e", "quit"},
		}
		parts := make([]string, 0, len(hints))
		for _, h := range hints {
			parts = append(parts, bg.Render("<"+h.key+">", styles.AccentText)+bg.Space()+bg.Render(h.desc, styles.MutedText))
		}
		content = bg.Join(parts, "  ")
	}
	return bg.FillLine(bg.Space()+content, m.width)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 1 {
		return string(r[:max])
	}
	return string(r[:max-1]) + "…"
}

func truncateMiddle(s string, max int) string {
	r := []rune(s)
	if len(r) <= max || max < 5 {
		return truncate(s, max)
	}
	half := (max - 1) / 2
	return string(r[:half]) + "…" + string(r[len(r)-(max-1-half):])
}
