package hotspot

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Manager owns the reserved hotspot connection profile.
type Manager struct {
	runner   Runner
	goos     string
	validate *validator.Validate
}

// Option customizes a Manager.
type Option func(*Manager)

// WithGOOS overrides the detected operating system.
func WithGOOS(goos string) Option {
	return func(m *Manager) { m.goos = goos }
}

// NewManager builds a Manager that issues commands through runner.
func NewManager(runner Runner, opts ...Option) *Manager {
	if runner == nil {
		runner = ExecRunner{}
	}
	m := &Manager{
		runner:   runner,
		goos:     runtime.GOOS,
		validate: validator.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Supported reports whether hotspots can be managed on this platform.
func (m *Manager) Supported() bool {
	return m.goos == "linux"
}

func (m *Manager) unsupported() *Error {
	return newError(CodeUnsupportedPlatform, "hotspot management requires linux with NetworkManager (running on %s)", m.goos)
}

// Status is a point-in-time view of the wireless interface.
type Status struct {
	Supported       bool   `json:"supported"`
	Interface       string `json:"interface"`
	State           string `json:"state"`
	ConnectionName  string `json:"connectionName"`
	IsHotspotActive bool   `json:"isHotspotActive"`
	IPv4Address     string `json:"ipv4Address,omitempty"`
	Error           string `json:"error,omitempty"`
}

// StopResult is returned by Stop and Release.
type StopResult struct {
	Stopped bool   `json:"stopped"`
	Error   string `json:"error,omitempty"`
}

// Start recreates the reserved profile as an access point and brings it up.
// Validation and platform errors are returned before any command runs.
func (m *Manager) Start(ctx context.Context, opts StartOptions) (Status, error) {
	if !m.Supported() {
		return Status{}, m.unsupported()
	}
	opts, err := m.Validate(opts)
	if err != nil {
		return Status{}, err
	}

	iface, err := m.pickWifiDevice(ctx, opts.Ifname)
	if err != nil {
		return Status{}, err
	}
	if err := m.runSteps(ctx, startSteps(iface, opts)); err != nil {
		return Status{}, err
	}
	return m.Status(ctx, StatusOptions{Ifname: iface}), nil
}

// Stop brings the reserved profile down. A missing profile is not an error.
func (m *Manager) Stop(ctx context.Context) StopResult {
	if !m.Supported() {
		return StopResult{Stopped: true, Error: m.unsupported().Error()}
	}
	_ = m.runSteps(ctx, []step{{name: "down", args: downArgs(), bestEffort: true}})
	return StopResult{Stopped: true}
}

// Release brings the reserved profile down and deletes it.
func (m *Manager) Release(ctx context.Context) StopResult {
	if !m.Supported() {
		return StopResult{Stopped: true, Error: m.unsupported().Error()}
	}
	_ = m.runSteps(ctx, releaseSteps())
	return StopResult{Stopped: true}
}

// Status queries the interface. It never returns an error; failures are
// reported in Status.Error so pollers keep running.
func (m *Manager) Status(ctx context.Context, opts StatusOptions) Status {
	if !m.Supported() {
		return Status{Supported: false, Error: m.unsupported().Error()}
	}
	iface, err := m.pickWifiDevice(ctx, strings.TrimSpace(opts.Ifname))
	if err != nil {
		return Status{Supported: true, Error: err.Error()}
	}
	res, err := m.runner.Run(ctx, deviceShowArgs(iface)...)
	if err != nil {
		return Status{Supported: true, Interface: iface, Error: fmt.Sprintf("show device: %v", err)}
	}

	fs := parseFields(res.Stdout)
	conn := fs.get("GENERAL.CONNECTION")
	return Status{
		Supported:       true,
		Interface:       iface,
		State:           deviceState(fs.get("GENERAL.STATE")),
		ConnectionName:  conn,
		IsHotspotActive: conn == ConnectionName,
		IPv4Address:     fs.get("IP4.ADDRESS"),
	}
}

// pickWifiDevice trusts an explicit interface name. Otherwise it prefers a
// connected wifi device, then the first wifi device listed.
func (m *Manager) pickWifiDevice(ctx context.Context, ifname string) (string, error) {
	if ifname != "" {
		return ifname, nil
	}
	res, err := m.runner.Run(ctx, listDevicesArgs()...)
	if err != nil {
		return "", fmt.Errorf("list devices: %w", err)
	}

	var first string
	for _, d := range parseDevices(res.Stdout) {
		if d.Type != "wifi" {
			continue
		}
		if strings.HasPrefix(d.State, "connected") {
			return d.Name, nil
		}
		if first == "" {
			first = d.Name
		}
	}
	if first == "" {
		return "", newError(CodeNoWifiDevice, "no wifi device found")
	}
	return first, nil
}
