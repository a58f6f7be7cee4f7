// Package payload encodes and decodes the session descriptor carried by the
// attendance QR code.
package payload

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

const (
	// Version is the only payload version this package produces or accepts.
	Version = 1
	// Type discriminates attendance payloads from any other JSON a scanner may read.
	Type = "hodory.attendance.session"
)

const startedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// SessionPayload is the wire form rendered into the QR image.
type SessionPayload struct {
	V          int         `json:"v"`
	Type       string      `json:"type"`
	Session    SessionInfo `json:"session"`
	Network    *Network    `json:"network,omitempty"`
	APIBaseURL string      `json:"apiBaseUrl,omitempty"`
}

// SessionInfo describes the attendance session itself.
type SessionInfo struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	ModuleCode      string `json:"moduleCode,omitempty"`
	Room            string `json:"room,omitempty"`
	StartedAt       string `json:"startedAt,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// Network tells the scanner which access point serves the session.
type Network struct {
	SSID     string `json:"ssid"`
	Password string `json:"password,omitempty"`
	Security string `json:"security"`
}

// New builds a v1 payload.
func New(info SessionInfo, network *Network, apiBaseURL string) SessionPayload {
	return SessionPayload{
		V:          Version,
		Type:       Type,
		Session:    info,
		Network:    network,
		APIBaseURL: strings.TrimSpace(apiBaseURL),
	}
}

// FormatStartedAt renders t the way scanners expect it: UTC with milliseconds.
func FormatStartedAt(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(startedAtLayout)
}

// Encode returns the compact JSON form of p.
func Encode(p SessionPayload) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(p); err != nil {
		return "", fmt.Errorf("encode payload: %w", err)
	}
	return strings.TrimRight(buf.String(), "\n"), nil
}

// Scan is the result of decoding a scanned string. Payload is nil when the
// input was not a valid v1 attendance payload and is treated as a bare code.
type Scan struct {
	Raw     string
	Payload *SessionPayload
}

// Code returns the attendance code the scan resolves to.
func (s Scan) Code() string {
	if s.Payload != nil {
		return s.Payload.Session.Code
	}
	return s.Raw
}

// Structured reports whether the scan carried a full payload.
func (s Scan) Structured() bool {
	return s.Payload != nil
}

// Decode interprets raw scanner input. It never fails: anything that is not
// JSON, JSON without the expected v/type pair, or a payload with an empty
// session code is returned as a bare code.
func Decode(raw string) Scan {
	trimmed := strings.TrimSpace(raw)
	scan := Scan{Raw: trimmed}

	var envelope struct {
		V    int    `json:"v"`
		Type string `json:"type"`
	}
	if err := json.Unmarshal([]byte(trimmed), &envelope); err != nil {
		return scan
	}
	if envelope.V != Version || envelope.Type != Type {
		return scan
	}

	var p SessionPayload
	if err := json.Unmarshal([]byte(trimmed), &p); err != nil {
		return scan
	}
	// without a code there is nothing to submit
	if strings.TrimSpace(p.Session.Code) == "" {
		return scan
	}
	scan.Payload = &p
	return scan
}
