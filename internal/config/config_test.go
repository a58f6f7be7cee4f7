package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv unsets the override variables for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{EnvWebAddr, EnvAPIBaseURL, EnvHotspotSSID, EnvHotspotPassword} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoad_MissingConfigFallsBackToDefaults(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	cfg, err := Load(filepath.Join(home, "does-not-exist.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WebAddr != defaultWebAddr {
		t.Fatalf("WebAddr = %q, want %q", cfg.WebAddr, defaultWebAddr)
	}
	if cfg.WebWait != defaultWebWait {
		t.Fatalf("WebWait = %v, want %v", cfg.WebWait, defaultWebWait)
	}
	if cfg.APIBaseURL != defaultAPIBaseURL {
		t.Fatalf("APIBaseURL = %q, want %q", cfg.APIBaseURL, defaultAPIBaseURL)
	}
	if cfg.Hotspot.SSID != defaultSSID || cfg.Hotspot.Security != defaultSecurity || cfg.Hotspot.Nmcli != defaultNmcliBinary {
		t.Fatalf("Hotspot = %#v, want defaults", cfg.Hotspot)
	}

	wantLogDir, err := expandPath(defaultLogDir)
	if err != nil {
		t.Fatalf("expandPath(defaultLogDir) returned error: %v", err)
	}
	if cfg.LogDir != wantLogDir {
		t.Fatalf("LogDir = %q, want %q", cfg.LogDir, wantLogDir)
	}
	if cfg.LogPath() != filepath.Join(wantLogDir, "beacon.log") {
		t.Fatalf("LogPath = %q, want %q", cfg.LogPath(), filepath.Join(wantLogDir, "beacon.log"))
	}
}

func TestLoad_ParsesAndTrimsConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
web_addr = "  127.0.0.1:5173  "
web_wait_seconds = 5
api_base_url = "https://api.example.edu"
log_dir = "  ~/.beacon/logs  "

[hotspot]
ssid = "Room12"
password = "classroom"
security = "nopass"
ifname = " wlan1 "
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.WebAddr != "127.0.0.1:5173" {
		t.Fatalf("WebAddr = %q, want %q", cfg.WebAddr, "127.0.0.1:5173")
	}
	if cfg.WebWait != 5*time.Second {
		t.Fatalf("WebWait = %v, want 5s", cfg.WebWait)
	}
	if cfg.APIBaseURL != "https://api.example.edu" {
		t.Fatalf("APIBaseURL = %q", cfg.APIBaseURL)
	}
	if !strings.HasPrefix(cfg.LogDir, home) {
		t.Fatalf("LogDir = %q, want it under HOME %q", cfg.LogDir, home)
	}
	want := Hotspot{SSID: "Room12", Password: "classroom", Security: "nopass", Ifname: "wlan1", Nmcli: defaultNmcliBinary}
	if cfg.Hotspot != want {
		t.Fatalf("Hotspot = %#v, want %#v", cfg.Hotspot, want)
	}
}

func TestLoad_InvalidTOMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`web_addr = [`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	_, err := Load(path)
	if err == nil {
		t.Fatalf("Load returned nil error, want parse error")
	}
	if !strings.Contains(err.Error(), "parse config") {
		t.Fatalf("Load error = %q, want it to mention parse config", err.Error())
	}
}

func TestLoad_EnvFileAndEnvironmentOverrides(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	clearEnv(t)

	dir := t.TempDir()
	envPath := filepath.Join(dir, ".env")
	if err := os.WriteFile(envPath, []byte("BEACON_HOTSPOT_SSID=FromFile\nBEACON_HOTSPOT_PASSWORD=secretpass\nBEACON_WEB_ADDR=127.0.0.1:4000\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	path := filepath.Join(dir, "config.toml")
	if err := os.WriteFile(path, []byte("env_file = \""+envPath+"\"\n[hotspot]\nssid = \"FromToml\"\n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	t.Setenv(EnvWebAddr, "127.0.0.1:5000")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Hotspot.SSID != "FromFile" {
		t.Fatalf("SSID = %q, want env file value", cfg.Hotspot.SSID)
	}
	if cfg.Hotspot.Password != "secretpass" {
		t.Fatalf("Password = %q, want env file value", cfg.Hotspot.Password)
	}
	if cfg.WebAddr != "127.0.0.1:5000" {
		t.Fatalf("WebAddr = %q, want environment to beat env file", cfg.WebAddr)
	}
	if _, ok := os.LookupEnv(EnvHotspotSSID); ok {
		t.Fatalf("Load leaked env file values into the process environment")
	}
}

func TestExpandPath_ExpandsTildeAndReturnsAbs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	got, err := expandPath("~/a/b")
	if err != nil {
		t.Fatalf("expandPath returned error: %v", err)
	}
	want := filepath.Join(home, "a/b")
	if got != want {
		t.Fatalf("expandPath = %q, want %q", got, want)
	}
}

func TestExpandPath_EmptyErrors(t *testing.T) {
	if _, err := expandPath("   "); err == nil {
		t.Fatalf("expandPath returned nil error, want error")
	}
}

func TestLogPath_DefaultsWhenLogDirEmpty(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	var cfg Config
	got := cfg.LogPath()
	if !strings.HasPrefix(got, home) {
		t.Fatalf("LogPath = %q, want it under HOME %q", got, home)
	}
	if !strings.HasSuffix(got, filepath.FromSlash("/beacon.log")) {
		t.Fatalf("LogPath = %q, want it to end with /beacon.log", got)
	}
}
