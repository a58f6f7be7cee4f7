package app

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hodory/beacon/internal/backend"
	"github.com/hodory/beacon/internal/hotspot"
	"github.com/hodory/beacon/internal/state"
)

func TestCalculateBackoff(t *testing.T) {
	baseInterval := 2 * time.Second

	tests := []struct {
		name     string
		failures int
		want     time.Duration
	}{
		{"zero failures", 0, 2 * time.Second},
		{"negative failures", -1, 2 * time.Second},
		{"one failure", 1, 4 * time.Second},
		{"two failures", 2, 8 * time.Second},
		{"three failures", 3, 16 * time.Second},
		{"four failures capped", 4, 30 * time.Second}, // Would be 32s, capped to 30s
		{"many failures capped", 10, 30 * time.Second},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := calculateBackoff(tt.failures, baseInterval)
			if got != tt.want {
				t.Errorf("calculateBackoff(%d, %v) = %v, want %v", tt.failures, baseInterval, got, tt.want)
			}
		})
	}
}

func TestCalculateBackoff_MaxCap(t *testing.T) {
	baseInterval := 2 * time.Second
	for failures := 0; failures <= 100; failures++ {
		got := calculateBackoff(failures, baseInterval)
		if got > maxBackoff {
			t.Errorf("calculateBackoff(%d, %v) = %v, exceeds maxBackoff %v", failures, baseInterval, got, maxBackoff)
		}
	}
}

type stubHotspot struct{ calls atomic.Int32 }

func (s *stubHotspot) HotspotStatus(context.Context, string) hotspot.Status {
	s.calls.Add(1)
	return hotspot.Status{Supported: true, Interface: "wlan0", IsHotspotActive: true}
}

type stubPinger struct{ err error }

func (s stubPinger) Ping(context.Context) (backend.Health, error) {
	if s.err != nil {
		return backend.Health{}, s.err
	}
	return backend.Health{Reachable: true, StatusCode: 200}, nil
}

func TestRefresh_UpdatesStore(t *testing.T) {
	var store state.Store
	hs := &stubHotspot{}

	refresh(context.Background(), &store, hs, stubPinger{})
	snap := store.Snapshot()
	if !snap.HasHotspot || !snap.Hotspot.IsHotspotActive {
		t.Fatalf("hotspot = %#v, want active", snap.Hotspot)
	}
	if !snap.Backend.Reachable || snap.LastError != nil {
		t.Fatalf("backend = %#v err %v, want reachable", snap.Backend, snap.LastError)
	}

	refresh(context.Background(), &store, hs, stubPinger{err: errors.New("refused")})
	refresh(context.Background(), &store, hs, stubPinger{err: errors.New("refused")})
	snap = store.Snapshot()
	if !snap.IsOffline() {
		t.Fatalf("IsOffline() = false after two failed pings")
	}
	if hs.calls.Load() != 3 {
		t.Fatalf("hotspot polled %d times, want 3", hs.calls.Load())
	}
}

func TestStartPoller_StopsOnCancel(t *testing.T) {
	var store state.Store
	hs := &stubHotspot{}
	ctx, cancel := context.WithCancel(context.Background())

	StartPoller(ctx, &store, hs, stubPinger{}, 10*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for hs.calls.Load() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("poller made %d calls, want at least 2", hs.calls.Load())
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	time.Sleep(30 * time.Millisecond)
	after := hs.calls.Load()
	time.Sleep(50 * time.Millisecond)
	if got := hs.calls.Load(); got != after {
		t.Fatalf("poller kept running after cancel: %d -> %d calls", after, got)
	}
}
