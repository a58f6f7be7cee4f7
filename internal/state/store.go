package state

import (
	"fmt"
	"sync"
	"time"

	"github.com/hodory/beacon/internal/backend"
	"github.com/hodory/beacon/internal/hotspot"
)

// Snapshot represents the latest data available to the UI.
type Snapshot struct {
	Hotspot             hotspot.Status
	HasHotspot          bool
	Backend             backend.Health
	HasBackend          bool
	LastUpdated         time.Time
	LastError           error
	ConsecutiveFailures int // Number of consecutive failed backend pings
}

// IsOffline returns true when the backend has been unreachable for multiple polls.
func (s Snapshot) IsOffline() bool {
	return s.ConsecutiveFailures >= 2
}

// Store coordinates concurrent updates to the snapshot.
type Store struct {
	mu       sync.RWMutex
	snapshot Snapshot
}

// Update records one poll. The hotspot status is always fresh, so it is
// stored even when err is non-nil; err concerns the backend ping and keeps
// the previous backend health while counting a failure.
func (s *Store) Update(hs hotspot.Status, health backend.Health, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot.Hotspot = hs
	s.snapshot.HasHotspot = true
	s.snapshot.LastUpdated = time.Now()

	if err != nil {
		s.snapshot.LastError = err
		s.snapshot.ConsecutiveFailures++
		if s.snapshot.HasBackend {
			s.snapshot.Backend.Reachable = false
		}
		return
	}

	s.snapshot.Backend = health
	s.snapshot.HasBackend = true
	s.snapshot.LastError = nil
	s.snapshot.ConsecutiveFailures = 0
}

// Snapshot returns a copy of the current snapshot.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.snapshot
	if s.snapshot.LastError != nil {
		snap.LastError = fmt.Errorf("%w", s.snapshot.LastError)
	}
	return snap
}
