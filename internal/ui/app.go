package ui

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/hodory/beacon/internal/config"
	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/live"
	"github.com/hodory/beacon/internal/prefs"
	"github.com/hodory/beacon/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewSession View = iota
	ViewLogs
)

// Controller is the slice of *live.Controller the UI drives.
type Controller interface {
	GoLive(ctx context.Context, opts live.Options) (live.Broadcast, error)
	StopLive(ctx context.Context) hotspot.StopResult
	HotspotStart(ctx context.Context, opts hotspot.StartOptions) (hotspot.Status, error)
	HotspotStop(ctx context.Context) hotspot.StopResult
	Current() (live.Broadcast, bool)
	HotspotDefaults() hotspot.StartOptions
}

// Options configures the UI.
type Options struct {
	Context    context.Context
	Controller Controller
	Store      *state.Store
	Config     *config.Config
	PollTick   time.Duration
	Prefs      prefs.Prefs
	PrefsPath  string
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	ctrl      Controller
	store     *state.Store
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	pollTick  time.Duration
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	broadcast   live.Broadcast
	isLive      bool
	qr          string
	qrFor       string

	// Pending action and last outcome
	busy  string
	flash flash

	// Log state
	logViewport viewport.Model
	logLines    []string
	logFollow   bool
	logErr      error

	// Overlays
	showHelp bool
	showForm bool
	form     sessionForm
}

type flash struct {
	text  string
	level flashLevel
}

type flashLevel int

const (
	flashInfo flashLevel = iota
	flashWarn
	flashError
)

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:         ctx,
		ctrl:        opts.Controller,
		store:       opts.Store,
		config:      opts.Config,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		pollTick:    pollTick,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewSession,
		logFollow:   true,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.ctrl != nil {
		cmds = append(cmds, fetchBroadcastCmd(m.ctrl))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if !m.ready {
			m.initLogViewport()
		}
		m.ready = true
		m.resizeLogViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case broadcastMsg:
		m.setBroadcast(msg.broadcast, msg.ok)
		return m, nil

	case goLiveMsg:
		m.busy = ""
		m.setBroadcast(msg.broadcast, msg.broadcast.Session.IsActive)
		switch {
		case msg.err == nil:
			m.flash = flash{text: "Session " + msg.broadcast.Session.Code + " is live"}
		case msg.broadcast.Session.IsActive:
			m.flash = flash{text: "Hotspot failed, session is live without it: " + describeError(msg.err), level: flashWarn}
		default:
			m.flash = flash{text: "Could not start session: " + describeError(msg.err), level: flashError}
		}
		return m, refreshAllCmd(m.store, m.ctrl)

	case stopMsg:
		m.busy = ""
		m.setBroadcast(live.Broadcast{}, false)
		m.flash = flash{text: "Session stopped"}
		if msg.result.Error != "" {
			m.flash = flash{text: "Session stopped; hotspot: " + msg.result.Error, level: flashWarn}
		}
		return m, refreshAllCmd(m.store, m.ctrl)

	case hotspotMsg:
		m.busy = ""
		if msg.err != nil {
			m.flash = flash{text: "Hotspot: " + describeError(msg.err), level: flashError}
		} else if msg.started {
			m.flash = flash{text: "Hotspot is up on " + msg.status.Interface}
		} else {
			m.flash = flash{text: "Hotspot stopped"}
		}
		return m, refreshAllCmd(m.store, m.ctrl)

	case logLinesMsg:
		m.handleLogLines(msg)
		return m, nil
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.showForm {
		return m.form.view(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}

	if m.showForm {
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		return m.handleFormKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil

	case key.Matches(msg, m.keys.ViewSession), key.Matches(msg, m.keys.Escape):
		m.currentView = ViewSession
		return m, nil

	case key.Matches(msg, m.keys.ViewLogs):
		m.currentView = ViewLogs
		return m, m.refreshLogs()

	case key.Matches(msg, m.keys.NewSession):
		if m.busy != "" || m.ctrl == nil {
			return m, nil
		}
		defaults := m.ctrl.HotspotDefaults()
		wantHotspot := defaults.SSID != "" && (!m.snapshot.HasHotspot || m.snapshot.Hotspot.Supported)
		m.form = newSessionForm(m.prefs.Module, m.prefs.Room, wantHotspot, defaults.SSID)
		m.showForm = true
		return m, nil

	case key.Matches(msg, m.keys.StopSession):
		if m.busy != "" || m.ctrl == nil || !m.isLive {
			return m, nil
		}
		m.busy = "Stopping session..."
		return m, stopLiveCmd(m.ctx, m.ctrl)

	case key.Matches(msg, m.keys.ToggleHotspot):
		if m.busy != "" || m.ctrl == nil {
			return m, nil
		}
		if m.snapshot.Hotspot.IsHotspotActive {
			m.busy = "Stopping hotspot..."
			return m, hotspotStopCmd(m.ctx, m.ctrl)
		}
		m.busy = "Starting hotspot..."
		return m, hotspotStartCmd(m.ctx, m.ctrl, m.ctrl.HotspotDefaults())
	}

	if m.currentView == ViewLogs {
		return m.handleLogsKey(msg)
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	form, action, cmd := m.form.update(msg, m.keys)
	m.form = form
	switch action {
	case formCancel:
		m.showForm = false
		return m, nil
	case formSubmit:
		m.showForm = false
		m.prefs.Module = form.module()
		m.prefs.Room = form.room()
		m.savePrefs()

		opts := live.Options{Module: form.module(), Room: form.room()}
		if form.hotspot {
			defaults := m.ctrl.HotspotDefaults()
			opts.Hotspot = &defaults
			m.busy = "Starting session and hotspot..."
		} else {
			m.busy = "Starting session..."
		}
		m.currentView = ViewSession
		return m, goLiveCmd(m.ctx, m.ctrl, opts)
	}
	return m, cmd
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.ctrl != nil {
		cmds = append(cmds, fetchBroadcastCmd(m.ctrl))
	}
	if m.currentView == ViewLogs && m.logFollow {
		cmds = append(cmds, m.refreshLogs())
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

// setBroadcast stores b and re-renders the QR only when the payload changed.
func (m *Model) setBroadcast(b live.Broadcast, ok bool) {
	m.isLive = ok
	if !ok {
		m.broadcast = live.Broadcast{}
		m.qr, m.qrFor = "", ""
		return
	}
	m.broadcast = b
	if b.Encoded == m.qrFor {
		return
	}
	qr, err := renderQR(b.Encoded)
	if err != nil {
		log.Printf("render qr: %v", err)
		qr = ""
	}
	m.qr, m.qrFor = qr, b.Encoded
}

func (m Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		log.Printf("save prefs failed: %v", err)
	}
}

func (m Model) renderMain() string {
	var b strings.Builder
	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")
	switch m.currentView {
	case ViewLogs:
		b.WriteString(m.renderLogs())
	default:
		b.WriteString(m.renderSession())
	}
	return b.String()
}

// describeError shortens hotspot errors to their code where one exists.
func describeError(err error) string {
	var he *hotspot.Error
	if errors.As(err, &he) {
		if he.Msg != "" {
			return fmt.Sprintf("%s (%s)", he.Msg, he.Code)
		}
		return string(he.Code)
	}
	var ce *hotspot.CommandError
	if errors.As(err, &ce) {
		if msg := strings.TrimSpace(ce.Stderr); msg != "" {
			return msg
		}
	}
	return err.Error()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type broadcastMsg struct {
	broadcast live.Broadcast
	ok        bool
}

type goLiveMsg struct {
	broadcast live.Broadcast
	err       error
}

type stopMsg struct {
	result hotspot.StopResult
}

type hotspotMsg struct {
	started bool
	status  hotspot.Status
	err     error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchBroadcastCmd(ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		b, ok := ctrl.Current()
		return broadcastMsg{broadcast: b, ok: ok}
	}
}

func refreshAllCmd(store *state.Store, ctrl Controller) tea.Cmd {
	var cmds []tea.Cmd
	if store != nil {
		cmds = append(cmds, fetchSnapshotCmd(store))
	}
	if ctrl != nil {
		cmds = append(cmds, fetchBroadcastCmd(ctrl))
	}
	return tea.Batch(cmds...)
}

func goLiveCmd(ctx context.Context, ctrl Controller, opts live.Options) tea.Cmd {
	return func() tea.Msg {
		b, err := ctrl.GoLive(ctx, opts)
		return goLiveMsg{broadcast: b, err: err}
	}
}

func stopLiveCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		return stopMsg{result: ctrl.StopLive(ctx)}
	}
}

func hotspotStartCmd(ctx context.Context, ctrl Controller, opts hotspot.StartOptions) tea.Cmd {
	return func() tea.Msg {
		st, err := ctrl.HotspotStart(ctx, opts)
		return hotspotMsg{started: true, status: st, err: err}
	}
}

func hotspotStopCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		res := ctrl.HotspotStop(ctx)
		var err error
		if res.Error != "" {
			err = errors.New(res.Error)
		}
		return hotspotMsg{err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		// cancelled by a signal; the caller tears down
		return nil
	}
	return err
}
