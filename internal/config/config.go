package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	toml "github.com/pelletier/go-toml/v2"
)

// Config is the host's runtime configuration.
type Config struct {
	WebAddr    string
	WebWait    time.Duration
	APIBaseURL string
	LogDir     string
	EnvFile    string
	Hotspot    Hotspot
}

// Hotspot holds the default access point settings.
type Hotspot struct {
	SSID     string
	Password string
	Security string
	Ifname   string
	Nmcli    string
}

const (
	defaultConfigPath  = "~/.config/beacon/config.toml"
	defaultLogDir      = "~/.local/share/beacon/logs"
	defaultEnvFile     = "~/.config/beacon/.env"
	defaultWebAddr     = "127.0.0.1:3000"
	defaultWebWait     = 30 * time.Second
	defaultAPIBaseURL  = "http://127.0.0.1:8080"
	defaultSSID        = "Hodory-Class"
	defaultSecurity    = "WPA"
	defaultNmcliBinary = "nmcli"
)

// Environment variables that override file values.
const (
	EnvWebAddr         = "BEACON_WEB_ADDR"
	EnvAPIBaseURL      = "BEACON_API_BASE_URL"
	EnvHotspotSSID     = "BEACON_HOTSPOT_SSID"
	EnvHotspotPassword = "BEACON_HOTSPOT_PASSWORD"
)

type rawConfig struct {
	WebAddr        string `toml:"web_addr"`
	WebWaitSeconds int    `toml:"web_wait_seconds"`
	APIBaseURL     string `toml:"api_base_url"`
	LogDir         string `toml:"log_dir"`
	EnvFile        string `toml:"env_file"`
	Hotspot        struct {
		SSID     string `toml:"ssid"`
		Password string `toml:"password"`
		Security string `toml:"security"`
		Ifname   string `toml:"ifname"`
		Nmcli    string `toml:"nmcli"`
	} `toml:"hotspot"`
}

// Load parses the config file, falling back to defaults when it is missing,
// then applies the env file and environment overrides.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	var raw rawConfig
	file, err := os.Open(resolved)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return Config{}, fmt.Errorf("open config: %w", err)
	default:
		defer file.Close()
		bytes, err := io.ReadAll(file)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := toml.Unmarshal(bytes, &raw); err != nil {
			return Config{}, fmt.Errorf("parse config: %w", err)
		}
	}

	cfg := Config{
		WebAddr:    orDefault(raw.WebAddr, defaultWebAddr),
		WebWait:    defaultWebWait,
		APIBaseURL: orDefault(raw.APIBaseURL, defaultAPIBaseURL),
		LogDir:     mustExpand(orDefault(raw.LogDir, defaultLogDir)),
		EnvFile:    mustExpand(orDefault(raw.EnvFile, defaultEnvFile)),
		Hotspot: Hotspot{
			SSID:     orDefault(raw.Hotspot.SSID, defaultSSID),
			Password: raw.Hotspot.Password,
			Security: orDefault(raw.Hotspot.Security, defaultSecurity),
			Ifname:   strings.TrimSpace(raw.Hotspot.Ifname),
			Nmcli:    orDefault(raw.Hotspot.Nmcli, defaultNmcliBinary),
		},
	}
	if raw.WebWaitSeconds > 0 {
		cfg.WebWait = time.Duration(raw.WebWaitSeconds) * time.Second
	}

	env, err := readEnvFile(cfg.EnvFile)
	if err != nil {
		return Config{}, err
	}
	cfg.applyEnv(env)
	return cfg, nil
}

// LogPath returns the host log file.
func (c Config) LogPath() string {
	if strings.TrimSpace(c.LogDir) == "" {
		return mustExpand(defaultLogDir + "/beacon.log")
	}
	return filepath.Join(c.LogDir, "beacon.log")
}

// readEnvFile returns the variables in path. A missing file is not an error.
func readEnvFile(path string) (map[string]string, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return values, nil
}

// applyEnv overrides fields from the process environment first and the env
// file second, so a real variable always wins over the file.
func (c *Config) applyEnv(file map[string]string) {
	lookup := func(key string) string {
		if v, ok := os.LookupEnv(key); ok {
			return strings.TrimSpace(v)
		}
		return strings.TrimSpace(file[key])
	}
	if v := lookup(EnvWebAddr); v != "" {
		c.WebAddr = v
	}
	if v := lookup(EnvAPIBaseURL); v != "" {
		c.APIBaseURL = v
	}
	if v := lookup(EnvHotspotSSID); v != "" {
		c.Hotspot.SSID = v
	}
	if v := lookup(EnvHotspotPassword); v != "" {
		c.Hotspot.Password = v
	}
}

func orDefault(value, fallback string) string {
	if trimmed := strings.TrimSpace(value); trimmed != "" {
		return trimmed
	}
	return fallback
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
