package app

import (
	"context"
	"errors"
	"log"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/hodory/beacon/internal/config"
	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/probe"
)

func TestHotspotDefaults(t *testing.T) {
	cfg := config.Config{Hotspot: config.Hotspot{SSID: "Class", Password: "secret-pass", Security: "wpa2", Ifname: "wlan1"}}
	got := hotspotDefaults(cfg)
	want := hotspot.StartOptions{SSID: "Class", Password: "secret-pass", Security: hotspot.SecurityWPA, Ifname: "wlan1"}
	if got != want {
		t.Fatalf("hotspotDefaults = %+v, want %+v", got, want)
	}
}

func TestRun_FailsWhenWebProcessIsDown(t *testing.T) {
	t.Cleanup(func() {
		log.SetOutput(os.Stderr)
		log.SetPrefix("")
	})
	for _, key := range []string{config.EnvWebAddr, config.EnvAPIBaseURL, config.EnvHotspotSSID, config.EnvHotspotPassword} {
		t.Setenv(key, "")
		_ = os.Unsetenv(key)
	}

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := ln.Addr().(*net.TCPAddr)
	_ = ln.Close()

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.toml")
	content := "web_addr = \"127.0.0.1:" + strconv.Itoa(addr.Port) + "\"\n" +
		"web_wait_seconds = 1\n" +
		"log_dir = \"" + filepath.Join(dir, "logs") + "\"\n" +
		"env_file = \"" + filepath.Join(dir, ".env") + "\"\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	err = Run(context.Background(), Options{ConfigPath: cfgPath, PrefsPath: filepath.Join(dir, "prefs.toml"), NoBridge: true})
	if !errors.Is(err, probe.ErrTimeout) {
		t.Fatalf("Run error = %v, want ErrTimeout", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "logs", "beacon.log")); err != nil {
		t.Fatalf("log file not created: %v", err)
	}
}
