package ui

import (
	"errors"
	"fmt"
	"strings"
	"syscall"
	"testing"

	"github.com/hodory/beacon/internal/hotspot"
)

func TestFormatCountdown(t *testing.T) {
	tests := map[int]string{
		5400: "1:30:00",
		3600: "1:00:00",
		3599: "59:59",
		61:   "01:01",
		0:    "00:00",
		-5:   "00:00",
	}
	for in, want := range tests {
		if got := formatCountdown(in); got != want {
			t.Fatalf("formatCountdown(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestSpaced(t *testing.T) {
	if got := spaced("7F3K-QX9M"); got != "7 F 3 K - Q X 9 M" {
		t.Fatalf("spaced = %q", got)
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("abcdef", 4); got != "abc…" {
		t.Fatalf("truncate = %q, want abc…", got)
	}
	if got := truncate("abc", 4); got != "abc" {
		t.Fatalf("truncate = %q, want abc", got)
	}
	if got := truncate("abc", 0); got != "" {
		t.Fatalf("truncate = %q, want empty", got)
	}
	if got := truncateMiddle("/home/lecturer/.local/share/beacon/logs/beacon.log", 20); len([]rune(got)) != 20 || !strings.Contains(got, "…") {
		t.Fatalf("truncateMiddle = %q, want 20 runes with ellipsis", got)
	}
}

func TestClassifyConnectionError(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{nil, "offline"},
		{fmt.Errorf("execute request: %w", syscall.ECONNREFUSED), "refused"},
		{errors.New("backend returned status 502"), "server error"},
		{errors.New("something else"), "offline"},
	}
	for _, tt := range tests {
		if got := classifyConnectionError(tt.err); got != tt.want {
			t.Fatalf("classifyConnectionError(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}

func TestDescribeError(t *testing.T) {
	err := fmt.Errorf("start hotspot: %w", &hotspot.Error{Code: hotspot.CodeNoWifiDevice, Msg: "no wifi device found"})
	if got := describeError(err); got != "no wifi device found (NO_WIFI_DEVICE)" {
		t.Fatalf("describeError = %q", got)
	}
	err = fmt.Errorf("hotspot up: %w", &hotspot.CommandError{Args: []string{"nmcli"}, ExitCode: 4, Stderr: "Error: secrets were required\n"})
	if got := describeError(err); got != "Error: secrets were required" {
		t.Fatalf("describeError = %q", got)
	}
}

func TestRenderQR(t *testing.T) {
	qr, err := renderQR(`{"v":1,"type":"hodory.attendance.session","session":{"id":"x","code":"ABCD-EFGH"}}`)
	if err != nil {
		t.Fatalf("renderQR returned error: %v", err)
	}
	lines := strings.Split(qr, "\n")
	if len(lines) < 10 {
		t.Fatalf("qr has %d lines, want a full symbol", len(lines))
	}
	if _, err := renderQR(""); err == nil {
		t.Fatalf("renderQR(\"\") returned nil error")
	}
}
