package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/live"
	"github.com/hodory/beacon/internal/prefs"
	"github.com/hodory/beacon/internal/session"
	"github.com/hodory/beacon/internal/state"
)

type fakeController struct {
	goLive       []live.Options
	goLiveErr    error
	stops        int
	hotspotStart []hotspot.StartOptions
	hotspotStops int
	current      live.Broadcast
	live         bool
}

func (f *fakeController) GoLive(_ context.Context, opts live.Options) (live.Broadcast, error) {
	f.goLive = append(f.goLive, opts)
	b := live.Broadcast{
		Session: session.Session{IsActive: true, ModuleCode: opts.Module, Room: opts.Room, Code: "ABCD-EFGH", RemainingSeconds: session.DurationSeconds},
		Encoded: fmt.Sprintf(`{"code":"ABCD-EFGH","module":%q}`, opts.Module),
	}
	return b, f.goLiveErr
}

func (f *fakeController) StopLive(context.Context) hotspot.StopResult {
	f.stops++
	return hotspot.StopResult{Stopped: true}
}

func (f *fakeController) HotspotStart(_ context.Context, opts hotspot.StartOptions) (hotspot.Status, error) {
	f.hotspotStart = append(f.hotspotStart, opts)
	return hotspot.Status{Supported: true, Interface: "wlan0", IsHotspotActive: true}, nil
}

func (f *fakeController) HotspotStop(context.Context) hotspot.StopResult {
	f.hotspotStops++
	return hotspot.StopResult{Stopped: true}
}

func (f *fakeController) Current() (live.Broadcast, bool) { return f.current, f.live }

func (f *fakeController) HotspotDefaults() hotspot.StartOptions {
	return hotspot.StartOptions{SSID: "Hodory-Class", Password: "secret-pass", Security: hotspot.SecurityWPA}
}

func newTestModel(t *testing.T, ctrl *fakeController) Model {
	t.Helper()
	m := New(Options{
		Controller: ctrl,
		Store:      &state.Store{},
		PrefsPath:  filepath.Join(t.TempDir(), "prefs.toml"),
		Prefs:      prefs.Prefs{Theme: "Dracula", Module: "CS101"},
	})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model)
}

func press(t *testing.T, m Model, msg tea.KeyMsg) (Model, tea.Cmd) {
	t.Helper()
	updated, cmd := m.Update(msg)
	return updated.(Model), cmd
}

func TestModel_NewSessionFormGoesLive(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	m, _ = press(t, m, runes("n"))
	if !m.showForm {
		t.Fatalf("showForm = false after n")
	}
	if got := m.form.module(); got != "CS101" {
		t.Fatalf("form module = %q, want CS101 from prefs", got)
	}
	if !m.form.hotspot {
		t.Fatalf("form hotspot = false, want true when an SSID is configured")
	}

	m, cmd := press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.showForm {
		t.Fatalf("showForm = true after submit")
	}
	if m.busy == "" {
		t.Fatalf("busy is empty while going live")
	}
	if cmd == nil {
		t.Fatalf("submit returned nil cmd")
	}
	msg, ok := cmd().(goLiveMsg)
	if !ok {
		t.Fatalf("cmd produced %T, want goLiveMsg", cmd())
	}
	if len(ctrl.goLive) != 1 || ctrl.goLive[0].Hotspot == nil || ctrl.goLive[0].Hotspot.SSID != "Hodory-Class" {
		t.Fatalf("GoLive calls = %+v, want one with the default hotspot", ctrl.goLive)
	}

	updated, _ := m.Update(msg)
	m = updated.(Model)
	if !m.isLive || m.busy != "" {
		t.Fatalf("isLive, busy = %v, %q, want true, empty", m.isLive, m.busy)
	}
	if m.qr == "" {
		t.Fatalf("qr was not rendered for the broadcast")
	}
	if m.flash.level != flashInfo {
		t.Fatalf("flash level = %d, want info", m.flash.level)
	}

	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load returned error: %v", err)
	}
	if saved.Module != "CS101" {
		t.Fatalf("saved module = %q, want CS101", saved.Module)
	}
}

func TestModel_GoLiveHotspotFailureWarns(t *testing.T) {
	ctrl := &fakeController{goLiveErr: fmt.Errorf("start hotspot: %w", hotspot.ErrNoWifiDevice)}
	m := newTestModel(t, ctrl)

	b, err := ctrl.GoLive(context.Background(), live.Options{Module: "CS101"})
	updated, _ := m.Update(goLiveMsg{broadcast: b, err: err})
	m = updated.(Model)

	if !m.isLive {
		t.Fatalf("isLive = false, want the session kept live")
	}
	if m.flash.level != flashWarn {
		t.Fatalf("flash level = %d, want warn", m.flash.level)
	}
}

func TestModel_GoLiveFailureWithoutSession(t *testing.T) {
	m := newTestModel(t, &fakeController{})
	updated, _ := m.Update(goLiveMsg{err: errors.New("boom")})
	m = updated.(Model)
	if m.isLive {
		t.Fatalf("isLive = true, want false")
	}
	if m.flash.level != flashError {
		t.Fatalf("flash level = %d, want error", m.flash.level)
	}
}

func TestModel_StopOnlyWhenLive(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	if _, cmd := press(t, m, runes("x")); cmd != nil {
		t.Fatalf("x while idle returned a cmd")
	}

	m.setBroadcast(live.Broadcast{Session: session.Session{IsActive: true, Code: "ABCD-EFGH"}, Encoded: "ABCD-EFGH"}, true)
	m, cmd := press(t, m, runes("x"))
	if cmd == nil {
		t.Fatalf("x while live returned nil cmd")
	}
	updated, _ := m.Update(cmd())
	m = updated.(Model)
	if ctrl.stops != 1 {
		t.Fatalf("StopLive calls = %d, want 1", ctrl.stops)
	}
	if m.isLive || m.qr != "" {
		t.Fatalf("model still live after stop")
	}
}

func TestModel_ToggleHotspot(t *testing.T) {
	ctrl := &fakeController{}
	m := newTestModel(t, ctrl)

	m, cmd := press(t, m, runes("w"))
	if cmd == nil {
		t.Fatalf("w returned nil cmd")
	}
	if msg := cmd().(hotspotMsg); !msg.started || msg.err != nil {
		t.Fatalf("hotspotMsg = %+v, want started without error", msg)
	}
	if len(ctrl.hotspotStart) != 1 {
		t.Fatalf("HotspotStart calls = %d, want 1", len(ctrl.hotspotStart))
	}

	// busy until the result arrives
	if _, cmd := press(t, m, runes("w")); cmd != nil {
		t.Fatalf("w while busy returned a cmd")
	}

	m.busy = ""
	m.snapshot.HasHotspot = true
	m.snapshot.Hotspot.IsHotspotActive = true
	_, cmd = press(t, m, runes("w"))
	cmd()
	if ctrl.hotspotStops != 1 {
		t.Fatalf("HotspotStop calls = %d, want 1", ctrl.hotspotStops)
	}
}

func TestModel_CycleThemeSavesPrefs(t *testing.T) {
	m := newTestModel(t, &fakeController{})

	m, _ = press(t, m, runes("T"))
	if m.theme.Name != "Slate" {
		t.Fatalf("theme = %q, want Slate", m.theme.Name)
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load returned error: %v", err)
	}
	if saved.Theme != "Slate" {
		t.Fatalf("saved theme = %q, want Slate", saved.Theme)
	}
}

func TestModel_HelpClosesOnAnyKey(t *testing.T) {
	m := newTestModel(t, &fakeController{})

	m, _ = press(t, m, runes("?"))
	if !m.showHelp {
		t.Fatalf("showHelp = false after ?")
	}
	m, cmd := press(t, m, runes("n"))
	if m.showHelp || m.showForm || cmd != nil {
		t.Fatalf("key after help should only close it")
	}
}

func TestModel_ViewSwitching(t *testing.T) {
	m := newTestModel(t, &fakeController{})

	m, _ = press(t, m, runes("l"))
	if m.currentView != ViewLogs {
		t.Fatalf("currentView = %d, want ViewLogs", m.currentView)
	}
	m, _ = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.currentView != ViewSession {
		t.Fatalf("currentView = %d, want ViewSession", m.currentView)
	}
	if m.View() == "" {
		t.Fatalf("View() returned empty output")
	}
}
