package hotspot

import "strings"

// ConnectionName is the reserved NetworkManager profile this package owns.
const ConnectionName = "hodory-hotspot"

func listDevicesArgs() []string {
	return []string{"-t", "-f", "DEVICE,TYPE,STATE", "dev"}
}

func deviceShowArgs(iface string) []string {
	return []string{"-t", "-f", "GENERAL.STATE,GENERAL.CONNECTION,IP4.ADDRESS", "dev", "show", iface}
}

func addArgs(iface, ssid string) []string {
	return []string{"con", "add", "type", "wifi", "ifname", iface, "con-name", ConnectionName, "autoconnect", "no", "ssid", ssid}
}

func accessPointArgs() []string {
	return []string{"con", "modify", ConnectionName, "802-11-wireless.mode", "ap", "ipv4.method", "shared", "ipv6.method", "ignore"}
}

func securityArgs(sec Security, password string) []string {
	if sec == SecurityNone {
		return []string{"con", "modify", ConnectionName, "wifi-sec.key-mgmt", "none"}
	}
	return []string{"con", "modify", ConnectionName, "wifi-sec.key-mgmt", "wpa-psk", "wifi-sec.psk", password}
}

func upArgs() []string     { return []string{"con", "up", ConnectionName} }
func downArgs() []string   { return []string{"con", "down", ConnectionName} }
func deleteArgs() []string { return []string{"con", "delete", ConnectionName} }

type device struct {
	Name  string
	Type  string
	State string
}

// parseDevices reads `nmcli -t -f DEVICE,TYPE,STATE dev` output.
func parseDevices(out string) []device {
	var devices []device
	for _, line := range terseLines(out) {
		parts := splitTerse(line)
		if len(parts) < 3 {
			continue
		}
		devices = append(devices, device{Name: parts[0], Type: parts[1], State: parts[2]})
	}
	return devices
}

type field struct {
	Key   string
	Value string
}

type fields []field

// parseFields reads terse key:value output. Only the first colon separates
// key from value because values such as addresses may contain colons.
func parseFields(out string) fields {
	var fs fields
	for _, line := range terseLines(out) {
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}
		value = unescapeTerse(strings.TrimSpace(value))
		if value == "--" {
			value = ""
		}
		fs = append(fs, field{Key: strings.TrimSpace(key), Value: value})
	}
	return fs
}

// get returns the first value for key. Indexed keys like IP4.ADDRESS[1]
// match their bare name.
func (fs fields) get(key string) string {
	for _, f := range fs {
		if f.Key == key || strings.HasPrefix(f.Key, key+"[") {
			return f.Value
		}
	}
	return ""
}

// deviceState turns "100 (connected)" into "connected".
func deviceState(raw string) string {
	raw = strings.TrimSpace(raw)
	open := strings.Index(raw, "(")
	if open >= 0 && strings.HasSuffix(raw, ")") {
		return strings.TrimSpace(raw[open+1 : len(raw)-1])
	}
	return raw
}

func terseLines(out string) []string {
	var lines []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// splitTerse splits on colons that nmcli did not escape.
func splitTerse(line string) []string {
	var parts []string
	var cur strings.Builder
	escaped := false
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\':
			escaped = true
		case r == ':':
			parts = append(parts, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(parts, cur.String())
}

func unescapeTerse(value string) string {
	if !strings.Contains(value, `\`) {
		return value
	}
	return strings.NewReplacer(`\:`, ":", `\\`, `\`).Replace(value)
}
