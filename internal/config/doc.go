// Package config loads the beacon host configuration.
//
// # Configuration Discovery
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/beacon/config.toml
//  3. If the file doesn't exist, use defaults
//  4. Empty fields fall back to defaults individually
//
// After the TOML file, the env file named by env_file is read with godotenv
// and the BEACON_* variables are applied. A variable set in the real
// environment wins over the same key in the env file. The env file never
// modifies the process environment.
//
// # TOML Format
//
//	web_addr = "127.0.0.1:3000"
//	web_wait_seconds = 30
//	api_base_url = "http://127.0.0.1:8080"
//	log_dir = "~/.local/share/beacon/logs"
//	env_file = "~/.config/beacon/.env"
//
//	[hotspot]
//	ssid = "Hodory-Class"
//	password = ""
//	security = "WPA"
//	ifname = ""
//	nmcli = "nmcli"
//
// The hotspot password is best kept in the env file as
// BEACON_HOTSPOT_PASSWORD rather than in config.toml.
//
// # Path Expansion
//
//   - Absolute paths: Used as-is
//   - Tilde paths: Expanded to the home directory
//   - Relative paths: Converted to absolute based on current directory
package config
