package app

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/hodory/beacon/internal/backend"
	"github.com/hodory/beacon/internal/bridge"
	"github.com/hodory/beacon/internal/config"
	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/live"
	"github.com/hodory/beacon/internal/prefs"
	"github.com/hodory/beacon/internal/probe"
	"github.com/hodory/beacon/internal/session"
	"github.com/hodory/beacon/internal/state"
	"github.com/hodory/beacon/internal/ui"
)

// shutdownTimeout bounds the hotspot teardown on exit.
const shutdownTimeout = 45 * time.Second

// Options configure the beacon host.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/beacon/prefs.toml
	PollEvery  int    // seconds; zero uses default
	NoBridge   bool   // skip exporting the D-Bus bridge
	SystemBus  bool   // export the bridge on the system bus
}

// Run boots the host and blocks until the UI exits or ctx is cancelled. The
// session and the hotspot are torn down before it returns.
func Run(ctx context.Context, opts Options) error {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	logFile, err := setupLogging(cfg.LogPath())
	if err != nil {
		return err
	}
	defer func() { _ = logFile.Close() }()

	userPrefs, _ := prefs.Load(opts.PrefsPath)

	log.Printf("waiting for web process on %s", cfg.WebAddr)
	if err := probe.WaitForAddr(cfg.WebAddr, cfg.WebWait); err != nil {
		log.Printf("web process not ready: %v", err)
		return fmt.Errorf("web process not ready: %w", err)
	}

	client, err := backend.NewClient(cfg.APIBaseURL)
	if err != nil {
		return fmt.Errorf("init backend client: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	manager := hotspot.NewManager(hotspot.ExecRunner{Path: cfg.Hotspot.Nmcli})
	machine := session.NewMachine(nil)
	controller := live.New(machine, manager, cfg.APIBaseURL, hotspotDefaults(cfg))
	go machine.Run(ctx)
	defer shutdown(ctx, controller)

	store := &state.Store{}

	interval := defaultPollInterval
	if opts.PollEvery > 0 {
		interval = time.Duration(opts.PollEvery) * time.Second
	}

	// Start background poller
	StartPoller(ctx, store, controller, client, interval)

	// Do initial refresh to populate store before UI starts
	refresh(ctx, store, controller, client)

	if !opts.NoBridge {
		go func() {
			if err := bridge.Serve(ctx, controller, opts.SystemBus); err != nil {
				log.Printf("bridge unavailable: %v", err)
			}
		}()
	}

	log.Printf("host ready, backend %s", client.BaseURL())
	return ui.Run(ui.Options{
		Context:    ctx,
		Controller: controller,
		Store:      store,
		Config:     &cfg,
		PollTick:   time.Second,
		Prefs:      userPrefs,
		PrefsPath:  opts.PrefsPath,
	})
}

// setupLogging sends the standard logger to path, since the UI owns the
// terminal.
func setupLogging(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := tea.LogToFile(path, "")
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func hotspotDefaults(cfg config.Config) hotspot.StartOptions {
	return hotspot.StartOptions{
		SSID:     cfg.Hotspot.SSID,
		Password: cfg.Hotspot.Password,
		Security: hotspot.ParseSecurity(cfg.Hotspot.Security),
		Ifname:   cfg.Hotspot.Ifname,
	}
}

// shutdown stops the session and releases the hotspot profile. It runs after
// ctx is cancelled, so it gets its own deadline.
func shutdown(ctx context.Context, c *live.Controller) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	res := c.Shutdown(ctx)
	if res.Error != "" {
		log.Printf("hotspot release failed: %s", res.Error)
		return
	}
	log.Printf("host stopped")
}
